package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALLOW_SELF_ADMIN_SEED", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg := Load()

	assert.False(t, cfg.AllowSelfAdminSeed)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2d")
	assert.Equal(t, 48*time.Hour, Load().JWTExpiresIn)

	t.Setenv("JWT_EXPIRES_IN", "90m")
	assert.Equal(t, 90*time.Minute, Load().JWTExpiresIn)

	t.Setenv("JWT_EXPIRES_IN", "soon")
	assert.Equal(t, 7*24*time.Hour, Load().JWTExpiresIn)
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test", ElasticsearchAddrs: ""}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestGoogleOAuthEnabled(t *testing.T) {
	assert.False(t, (&Config{GoogleClientID: "id"}).GoogleOAuthEnabled())
	assert.True(t, (&Config{GoogleClientID: "id", GoogleClientSecret: "secret"}).GoogleOAuthEnabled())
}
