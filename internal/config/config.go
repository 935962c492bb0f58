// Package config collects server settings from the environment.
// main loads .env (godotenv) before calling Load.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config holds all runtime settings.
type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool
	// Production enables Secure/SameSite=None cookies.
	Production bool

	DBPath string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string

	DailySalt string

	// CharactersFile overrides the embedded pool with a JSON file.
	CharactersFile string
	// PoolSource is "embedded" or "sqlite".
	PoolSource string

	SuggestMode  string
	SuggestLimit int

	// AdminUsers may edit the character catalogue (ADMIN_USERS, comma separated).
	AdminUsers []string
	// FixedAnswers lets POST /game/new pick its target via answerId.
	// Off in production unless ALLOW_FIXED_ANSWER is set.
	FixedAnswers bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Config {
	return &Config{
		Port:           "5175",
		LogLevel:       "info",
		DBPath:         "./data/app.db",
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "huadle_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "local_dev_salt",
		PoolSource:     "embedded",
		SuggestMode:    "contains",
		SuggestLimit:   10,
		FixedAnswers:   true,
	}
}

// Load applies environment overrides on top of Defaults.
func Load() *Config {
	cfg := Defaults()

	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideBool(&cfg.LogPretty, "LOG_PRETTY")
	overrideString(&cfg.DBPath, "DB_PATH")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideInt(&cfg.JWTExpiresDays, "JWT_EXPIRES_DAYS")
	overrideString(&cfg.CookieName, "COOKIE_NAME")
	overrideString(&cfg.ClientOrigin, "CLIENT_ORIGIN")
	overrideString(&cfg.DailySalt, "DAILY_SALT")
	overrideString(&cfg.CharactersFile, "CHARACTERS_FILE")
	overrideString(&cfg.PoolSource, "POOL_SOURCE")
	overrideString(&cfg.SuggestMode, "SUGGEST_MODE")
	overrideInt(&cfg.SuggestLimit, "SUGGEST_LIMIT")
	cfg.Production = os.Getenv("NODE_ENV") == "production"
	if cfg.Production {
		cfg.FixedAnswers = false
	}
	overrideBool(&cfg.FixedAnswers, "ALLOW_FIXED_ANSWER")
	cfg.AdminUsers = splitList(os.Getenv("ADMIN_USERS"))

	cfg.PoolSource = strings.ToLower(strings.TrimSpace(cfg.PoolSource))
	if cfg.Production && cfg.JWTSecret == Defaults().JWTSecret {
		log.Warn().Msg("JWT_SECRET is not set; using the development secret in production")
	}
	return cfg
}

// IsAdmin reports whether username is on the admin allow-list (case-insensitive).
func (c *Config) IsAdmin(username string) bool {
	for _, a := range c.AdminUsers {
		if strings.EqualFold(a, strings.TrimSpace(username)) {
			return true
		}
	}
	return false
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Warn().Str("key", envKey).Str("value", val).Msg("invalid integer, keeping default")
		}
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			log.Warn().Str("key", envKey).Str("value", val).Msg("invalid boolean, keeping default")
		}
	}
}
