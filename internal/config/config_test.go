package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:              "development",
		Port:             "8080",
		MySQLDSN:         "dsn",
		JWTAccessSecret:  "a",
		JWTRefreshSecret: "r",
		TimeZone:         "UTC",
	}
}

func TestConfig_Validate(t *testing.T) {
	strong := "0123456789abcdef0123456789abcdef"
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"development defaults", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing dsn", func(c *Config) { c.MySQLDSN = "" }, true},
		{"missing refresh secret", func(c *Config) { c.JWTRefreshSecret = "" }, true},
		{"unknown time zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }, true},
		{"production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTAccessSecret = defaultAccessSecret
			c.JWTRefreshSecret = strong
		}, true},
		{"production with short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTAccessSecret = "short"
			c.JWTRefreshSecret = strong
		}, true},
		{"production with strong secrets", func(c *Config) {
			c.Env = "production"
			c.JWTAccessSecret = strong
			c.JWTRefreshSecret = strong
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yml := "PORT: \"9000\"\nTIME_ZONE: Europe/Moscow\nKAFKA_BROKERS: \"k1:9092, k2:9092\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))

	t.Setenv("PORT", "9100")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "Europe/Moscow", cfg.TimeZone)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ALLOWED_ORIGINS", "*")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "blogicum.content", cfg.KafkaTopic)
	assert.Empty(t, cfg.Brokers())
	assert.Equal(t, []string{"*"}, cfg.Origins())
}
