package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/perfume-catalog/pkg/mailer/templates"
)

func TestRenderTemplateJob(t *testing.T) {
	job := EmailJob{
		To:       "ana@example.com",
		Template: templates.Welcome,
		Data:     templates.NewData("Perfume Catalog", "Ana", "ana@example.com", time.Now()),
	}
	subject, text, html, err := job.Render()
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "Ana")
	assert.Contains(t, html, "ana@example.com")
}

func TestRenderRawJob(t *testing.T) {
	subject, text, html, err := EmailJob{To: "a@b.c", Subject: "Hi", Text: "plain"}.Render()
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "plain", text)
	assert.Empty(t, html)
}

func TestRenderRejectsEmptyJobs(t *testing.T) {
	_, _, _, err := EmailJob{Subject: "Hi", Text: "x"}.Render()
	assert.ErrorIs(t, err, ErrEmptyJob)

	_, _, _, err = EmailJob{To: "a@b.c", Subject: "Hi"}.Render()
	assert.ErrorIs(t, err, ErrEmptyJob)
}
