package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	data := NewData("Perfumes", "Ann", "ann@x.com", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Perfumes", subject)
	assert.Contains(t, text, "ann@x.com")
	assert.Contains(t, html, "<strong>ann@x.com</strong>")
}

func TestRenderEscapesHTML(t *testing.T) {
	data := NewData("", "<b>x</b>", "x@x.com", time.Now())
	_, _, html, err := Render(PasswordChanged, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
}

func TestRenderUnknown(t *testing.T) {
	_, _, _, err := Render("missing", nil)
	assert.Error(t, err)
}
