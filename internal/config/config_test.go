package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ENV", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "REQUEST_TIMEOUT",
	"AUTH_TOKEN_KEY", "ACCESS_TOKEN_DURATION", "AUTH_RATE_LIMIT", "AUTH_RATE_BURST",
	"CORS_ALLOWED_ORIGINS",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// baseArgs keeps tests away from the real home directory and any .env in the package dir.
func baseArgs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")}
}

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path"},
		Server: ServerConfig{
			Port:           "3000",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Auth:      AuthConfig{AccessTokenDuration: time.Hour},
		RateLimit: RateLimitConfig{AuthPerMinute: 20, AuthBurst: 10},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(baseArgs(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Empty(t, cfg.Auth.AccessTokenKey)
	assert.Equal(t, 20, cfg.RateLimit.AuthPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.AuthBurst)
	assert.True(t, filepath.IsAbs(cfg.Storage.DataPath))
	assert.Equal(t, filepath.Join(cfg.Storage.DataPath, "bookreview.db"), cfg.Storage.DatabasePath())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SERVER_PORT=4000\nLOG_LEVEL=warn\nACCESS_TOKEN_DURATION=30m\n# comment\nAUTH_RATE_BURST=3\n",
	), 0o600))

	// Environment beats .env, flags beat environment.
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ACCESS_TOKEN_DURATION", "2h")

	cfg, err := Load([]string{
		"-data-path", dir,
		"-env-file", envFile,
		"-access-token-duration", "45m",
		"-cors-origins", "https://a.example, https://b.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port, ".env value used when nothing else set")
	assert.Equal(t, "error", cfg.Logger.Level, "environment overrides .env")
	assert.Equal(t, 45*time.Minute, cfg.Auth.AccessTokenDuration, "flag overrides environment")
	assert.Equal(t, 3, cfg.RateLimit.AuthBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad duration", args: []string{"-read-timeout", "soon"}},
		{name: "bad rate limit", args: []string{"-auth-rate-limit", "many"}},
		{name: "bad environment", args: []string{"-env", "qa"}},
		{name: "short token key", args: []string{"-auth-token-key", "abcd"}},
		{name: "unknown flag", args: []string{"-no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(append(baseArgs(t), tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty data path", mutate: func(c *Config) { c.Storage.DataPath = "" }},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = "70000" }},
		{name: "non numeric port", mutate: func(c *Config) { c.Server.Port = "http" }},
		{name: "zero request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }},
		{name: "negative token duration", mutate: func(c *Config) { c.Auth.AccessTokenDuration = -time.Minute }},
		{name: "non hex key", mutate: func(c *Config) {
			c.Auth.AccessTokenKey = "zz23456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
		}},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.AuthBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
