package config

const (
	defaultServerPort = 8080

	defaultRateLimitRPS   = 100.0
	defaultRateLimitBurst = 200

	defaultBreakerMaxFailures = 5
	defaultBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":               "0.0.0.0",
		"server.port":               defaultServerPort,
		"server.read_timeout":       "5s",
		"server.write_timeout":      "10s",
		"server.idle_timeout":       "120s",
		"server.rate_limit.enabled": false,
		"server.rate_limit.rps":     defaultRateLimitRPS,
		"server.rate_limit.burst":   defaultRateLimitBurst,

		"log.level":  "info",
		"log.format": "json",

		"auth.token_ttl": "1h",

		"storage.backend":                 "memory",
		"storage.sqlite.path":             "registry.db",
		"storage.rent.base":               890880,
		"storage.rent.per_byte":           6960,
		"storage.breaker.enabled":         true,
		"storage.breaker.max_failures":    defaultBreakerMaxFailures,
		"storage.breaker.timeout":         "30s",
		"storage.breaker.half_open_limit": defaultBreakerHalfOpen,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
