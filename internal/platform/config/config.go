// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Service   ServiceConfig   `koanf:"service"`
	Auth      AuthConfig      `koanf:"auth"`
	Storage   StorageConfig   `koanf:"storage"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `koanf:"host"`
	Port         int             `koanf:"port"`
	ReadTimeout  time.Duration   `koanf:"read_timeout"`
	WriteTimeout time.Duration   `koanf:"write_timeout"`
	IdleTimeout  time.Duration   `koanf:"idle_timeout"`
	RateLimit    RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig holds inbound request rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ServiceConfig identifies this deployment. The identifier keys the
// deterministic address derivation, so changing it moves every record to a
// new keyspace. It is resolved at startup and must stay stable for the
// lifetime of the stored data.
type ServiceConfig struct {
	ID string `koanf:"id"`
}

// AuthConfig holds caller-identity token verification settings.
type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// StorageConfig selects and tunes the slot storage backend.
type StorageConfig struct {
	Backend  string         `koanf:"backend"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Rent     RentConfig     `koanf:"rent"`
	Breaker  BreakerConfig  `koanf:"breaker"`
}

// SQLiteConfig holds settings for the sqlite backend.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds settings for the postgres backend.
type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

// RentConfig prices slot allocation: deposit = base + per_byte * slot size.
// The deposit is refunded in full when the slot is closed.
type RentConfig struct {
	Base    uint64 `koanf:"base"`
	PerByte uint64 `koanf:"per_byte"`
}

// BreakerConfig holds circuit breaker settings for database-backed stores.
type BreakerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
