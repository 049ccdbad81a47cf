package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pricing-page/pkg/observability"
	"github.com/platinummonkey/pricing-page/pkg/page"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "custom")
	t.Setenv("TEST_BOOL", "TRUE")
	t.Setenv("TEST_BOOL_ONE", "1")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_LIST", " https://a.example , ,https://b.example")
	t.Setenv("TEST_LIST_EMPTY", " , ")

	assert.Equal(t, "custom", getEnv("TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TEST_STR_NOT_SET", "default"))

	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_BOOL_ONE", false))
	assert.True(t, getEnvBool("TEST_BOOL_NOT_SET", true))

	assert.Equal(t, 42, getEnvInt("TEST_INT", 10))
	assert.Equal(t, 10, getEnvInt("TEST_INT_BAD", 10))

	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION_NOT_SET", time.Second))

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvList("TEST_LIST", nil))
	assert.Equal(t, []string{"*"}, getEnvList("TEST_LIST_EMPTY", []string{"*"}))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]observability.LogLevel{
		"debug":   observability.DebugLevel,
		"INFO":    observability.InfoLevel,
		"warn":    observability.WarnLevel,
		"warning": observability.WarnLevel,
		"error":   observability.ErrorLevel,
		"verbose": observability.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 60, cfg.Server.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	assert.Empty(t, cfg.Page.CatalogFile)
	assert.Equal(t, "/", cfg.Page.HomeURL)
	assert.Equal(t, 5*time.Minute, cfg.Page.CacheTTL)
	assert.Equal(t, page.DefaultTitle, cfg.Page.Title)
	assert.Equal(t, page.DefaultDescription, cfg.Page.Description)
	assert.Equal(t, page.DefaultKeywords, cfg.Page.Keywords)
	assert.Equal(t, "https://dostuff.com/pricing", cfg.Page.CanonicalURL)
	assert.Equal(t, page.DefaultMetadata(), cfg.Metadata())

	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.OTelEnabled)
	assert.Equal(t, "pricing-page", cfg.OTel().ServiceName)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRICING_PORT", "8000")
	t.Setenv("PRICING_HOME_URL", "https://dostuff.com/")
	t.Setenv("PRICING_TITLE", "Plans")
	t.Setenv("PRICING_CACHE_TTL", "1m")
	t.Setenv("PRICING_LOG_LEVEL", "debug")
	t.Setenv("PRICING_OTEL_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "https://dostuff.com/", cfg.Page.HomeURL)
	assert.Equal(t, "Plans", cfg.Page.Title)
	assert.Equal(t, time.Minute, cfg.Page.CacheTTL)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.OTel().Enabled)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	envFile := filepath.Join(dir, "pricing.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PRICING_HOME_URL=/home\nPRICING_PORT=7000\n"), 0o600))

	// Process environment wins over the file
	t.Setenv("PRICING_PORT", "7100")
	// registered so cleanup removes the value loaded from the file
	t.Setenv("PRICING_HOME_URL", "")
	require.NoError(t, os.Unsetenv("PRICING_HOME_URL"))

	cfg, err := LoadConfig(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/home", cfg.Page.HomeURL)
	assert.Equal(t, "7100", cfg.Server.Port)
}

func TestLoadConfig_InvalidEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT A VALID LINE ==\n'unterminated"), 0o600))

	_, err := LoadConfig(envFile)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", HealthPort: "9090", RateLimit: 60},
			Page: PageConfig{
				HomeURL:      "/",
				CanonicalURL: page.DefaultCanonicalURL,
				CacheTTL:     time.Minute,
				CacheSize:    16,
			},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"missing health port", func(c *Config) { c.Server.HealthPort = "" }, "health port is required"},
		{"same ports", func(c *Config) { c.Server.HealthPort = "8080" }, "must be different"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "rate limit"},
		{"missing home", func(c *Config) { c.Page.HomeURL = "" }, "home URL is required"},
		{"relative canonical", func(c *Config) { c.Page.CanonicalURL = "/pricing" }, "canonical URL must be absolute"},
		{"watch without file", func(c *Config) { c.Page.CatalogWatch = true }, "catalog watch requires"},
		{"negative ttl", func(c *Config) { c.Page.CacheTTL = -time.Second }, "cache TTL"},
		{"zero cache size", func(c *Config) { c.Page.CacheSize = 0 }, "cache size"},
		{"otel without endpoint", func(c *Config) {
			c.Observability.OTelEnabled = true
			c.Observability.OTelServiceName = "pricing-page"
		}, "endpoint is required"},
		{"otel without service", func(c *Config) {
			c.Observability.OTelEnabled = true
			c.Observability.OTelEndpoint = "localhost:4317"
		}, "service name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
