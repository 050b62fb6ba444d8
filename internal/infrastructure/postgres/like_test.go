package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%%", likePattern(""))
	assert.Equal(t, "%dior%", likePattern("dior"))
	assert.Equal(t, `%100\% pure\_oud%`, likePattern("100% pure_oud"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
