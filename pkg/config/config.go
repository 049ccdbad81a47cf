package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/platinummonkey/pricing-page/pkg/observability"
	"github.com/platinummonkey/pricing-page/pkg/page"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Page configuration
	Page PageConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// Requests per minute per client IP on the toggle and back routes.
	// Zero disables limiting.
	RateLimit   int
	CORSOrigins []string
}

// PageConfig holds what the pricing page renders
type PageConfig struct {
	// Empty means the embedded default catalog
	CatalogFile string
	// Reload CatalogFile when it changes on disk
	CatalogWatch bool
	HomeURL      string
	CacheTTL     time.Duration
	CacheSize    int

	Title        string
	Description  string
	Keywords     string
	CanonicalURL string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables, after
// applying any .env files. Missing env files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:        loadServerConfig(),
		Page:          loadPageConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvFiles never overrides variables already set in the process
func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("PRICING_HOST", "0.0.0.0"),
		Port:            getEnv("PRICING_PORT", "8080"),
		ReadTimeout:     getEnvDuration("PRICING_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("PRICING_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("PRICING_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("PRICING_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("PRICING_HEALTH_PORT", "9090"),
		RateLimit:       getEnvInt("PRICING_RATE_LIMIT", 60),
		CORSOrigins:     getEnvList("PRICING_CORS_ORIGINS", []string{"*"}),
	}
}

// loadPageConfig loads page configuration from environment
func loadPageConfig() PageConfig {
	return PageConfig{
		CatalogFile:  getEnv("PRICING_CATALOG_FILE", ""),
		CatalogWatch: getEnvBool("PRICING_CATALOG_WATCH", false),
		HomeURL:      getEnv("PRICING_HOME_URL", "/"),
		CacheTTL:     getEnvDuration("PRICING_CACHE_TTL", 5*time.Minute),
		CacheSize:    getEnvInt("PRICING_CACHE_SIZE", 16),
		Title:        getEnv("PRICING_TITLE", page.DefaultTitle),
		Description:  getEnv("PRICING_DESCRIPTION", page.DefaultDescription),
		Keywords:     getEnv("PRICING_KEYWORDS", page.DefaultKeywords),
		CanonicalURL: getEnv("PRICING_CANONICAL_URL", page.DefaultCanonicalURL),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           ParseLogLevel(getEnv("PRICING_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("PRICING_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("PRICING_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("PRICING_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("PRICING_OTEL_SERVICE_NAME", "pricing-page"),
		OTelServiceVersion: getEnv("PRICING_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("PRICING_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	// Validate page config
	if c.Page.HomeURL == "" {
		return fmt.Errorf("home URL is required")
	}
	if _, err := url.Parse(c.Page.HomeURL); err != nil {
		return fmt.Errorf("invalid home URL: %w", err)
	}
	if c.Page.CanonicalURL != "" {
		u, err := url.Parse(c.Page.CanonicalURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("canonical URL must be absolute: %q", c.Page.CanonicalURL)
		}
	}
	if c.Page.CatalogWatch && c.Page.CatalogFile == "" {
		return fmt.Errorf("catalog watch requires a catalog file")
	}
	if c.Page.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative")
	}
	if c.Page.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// Metadata returns the page metadata
func (c *Config) Metadata() page.Metadata {
	return page.Metadata{
		Title:        c.Page.Title,
		Description:  c.Page.Description,
		Keywords:     c.Page.Keywords,
		CanonicalURL: c.Page.CanonicalURL,
	}
}

// OTel converts the observability settings for observability.InitTracing
func (c *Config) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        c.Observability.OTelEnabled,
		Endpoint:       c.Observability.OTelEndpoint,
		ServiceName:    c.Observability.OTelServiceName,
		ServiceVersion: c.Observability.OTelServiceVersion,
		Insecure:       c.Observability.OTelInsecure,
	}
}

// ParseLogLevel parses a log level string, defaulting to info
func ParseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
