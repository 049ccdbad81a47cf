// Package config loads the pricing page service configuration from
// environment variables.
//
// A .env file in the working directory is applied first (via godotenv)
// without overriding variables already set in the process.
//
// # Variables
//
//	PRICING_HOST, PRICING_PORT, PRICING_HEALTH_PORT
//	PRICING_READ_TIMEOUT, PRICING_WRITE_TIMEOUT, PRICING_IDLE_TIMEOUT, PRICING_SHUTDOWN_TIMEOUT
//	PRICING_RATE_LIMIT, PRICING_CORS_ORIGINS
//	PRICING_CATALOG_FILE, PRICING_CATALOG_WATCH, PRICING_HOME_URL, PRICING_CACHE_TTL, PRICING_CACHE_SIZE
//	PRICING_TITLE, PRICING_DESCRIPTION, PRICING_KEYWORDS, PRICING_CANONICAL_URL
//	PRICING_LOG_LEVEL, PRICING_METRICS_ENABLED
//	PRICING_OTEL_ENABLED, PRICING_OTEL_ENDPOINT, PRICING_OTEL_SERVICE_NAME,
//	PRICING_OTEL_SERVICE_VERSION, PRICING_OTEL_INSECURE
//
// # Usage
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
package config
