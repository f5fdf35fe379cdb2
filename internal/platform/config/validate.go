package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Service.validate(),
		c.Auth.validate(),
		c.Storage.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RateLimit.Enabled {
		if s.RateLimit.RPS <= 0 {
			errs = append(errs, fmt.Errorf("server.rate_limit.rps must be positive, got %f", s.RateLimit.RPS))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("server.rate_limit.burst must be >= 1, got %d", s.RateLimit.Burst))
		}
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *ServiceConfig) validate() error {
	var errs []error

	if s.ID == "" {
		errs = append(errs, errors.New("service.id must not be empty"))
	}
	// BLAKE2b key limit; NewDeriver enforces the same bound.
	if len(s.ID) > 64 {
		errs = append(errs, fmt.Errorf("service.id must be at most 64 bytes, got %d", len(s.ID)))
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) validate() error {
	var errs []error

	if a.Secret == "" {
		errs = append(errs, errors.New("auth.secret must not be empty"))
	}
	if a.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	return errors.Join(errs...)
}

func (s *StorageConfig) validate() error {
	var errs []error

	switch s.Backend {
	case "memory":
		// No backend-specific settings.
	case "sqlite":
		if s.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path must not be empty"))
		}
	case "postgres":
		if s.Postgres.DSN == "" {
			errs = append(errs, errors.New("storage.postgres.dsn must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be one of: memory, sqlite, postgres; got %q", s.Backend))
	}

	if s.Breaker.Enabled && s.Breaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("storage.breaker.max_failures must be >= 1, got %d", s.Breaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
