package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 14, cfg.JWTExpiresDays)
	assert.Equal(t, "embedded", cfg.PoolSource)
	assert.Equal(t, 10, cfg.SuggestLimit)
	assert.False(t, cfg.Production)
	assert.True(t, cfg.FixedAnswers)
	assert.Empty(t, cfg.AdminUsers)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("POOL_SOURCE", " SQLite ")
	t.Setenv("NODE_ENV", "production")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 3, cfg.JWTExpiresDays)
	assert.Equal(t, "sqlite", cfg.PoolSource)
	assert.True(t, cfg.Production)
	assert.False(t, cfg.FixedAnswers, "production hides answerId")
	// not overridden
	assert.Equal(t, "huadle_token", cfg.CookieName)
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("SUGGEST_LIMIT", "lots")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.SuggestLimit)
	assert.False(t, cfg.LogPretty)
}

func TestLoadAdminUsers(t *testing.T) {
	t.Setenv("ADMIN_USERS", " curator, ,Elder_Hyun ")

	cfg := Load()

	assert.Equal(t, []string{"curator", "Elder_Hyun"}, cfg.AdminUsers)
	assert.True(t, cfg.IsAdmin("CURATOR"))
	assert.True(t, cfg.IsAdmin("elder_hyun"))
	assert.False(t, cfg.IsAdmin("visitor"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestLoadFixedAnswerOverride(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("ALLOW_FIXED_ANSWER", "true")

	cfg := Load()

	assert.True(t, cfg.FixedAnswers)
}
