// Package config handles loading and validating application configuration.
//
// Configuration is loaded from a YAML file with environment variable overrides.
// Environment variables use the HANDLERCHAIN_ prefix (e.g., HANDLERCHAIN_LOG_LEVEL).
// Configuration only affects logging, tracing, and metrics output; it never
// changes which rules or units a chain runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("invalid config")

// Config holds the complete application configuration.
type Config struct {
	Log           Log           `yaml:"log"`
	Observability Observability `yaml:"observability"`
	Metrics       Metrics       `yaml:"metrics"`
}

// Log configures structured logging. Logs are written to stderr.
type Log struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	CloudFormat string `yaml:"cloud_format"`
}

// Observability configures optional OpenTelemetry tracing.
type Observability struct {
	OTelEnabled     bool   `yaml:"otel_enabled"`
	OTelEndpoint    string `yaml:"otel_endpoint"`
	OTelServiceName string `yaml:"otel_service_name"`
}

// Metrics configures the Prometheus textfile written after each run.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Defaults returns a Config with sensible defaults. Tracing and the metrics
// textfile are disabled; only warnings and errors are logged.
func Defaults() Config {
	return Config{
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
		Observability: Observability{
			OTelEndpoint:    "http://localhost:4318",
			OTelServiceName: "handlerchain",
		},
	}
}

// Load reads configuration from the given YAML file path, then applies
// environment variable overrides. If path is empty, only defaults and
// environment variables are used.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return cfg, nil
}

// applyEnvOverrides reads HANDLERCHAIN_* environment variables and overrides
// the corresponding config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HANDLERCHAIN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("HANDLERCHAIN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("HANDLERCHAIN_LOG_CLOUD_FORMAT"); v != "" {
		cfg.Log.CloudFormat = strings.ToLower(v)
	}
	if v := os.Getenv("HANDLERCHAIN_OTEL_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.OTelEnabled = enabled
		}
	}
	if v := os.Getenv("HANDLERCHAIN_OTEL_ENDPOINT"); v != "" {
		cfg.Observability.OTelEndpoint = strings.TrimSpace(v)
	}
	if v := os.Getenv("HANDLERCHAIN_OTEL_SERVICE_NAME"); v != "" {
		cfg.Observability.OTelServiceName = v
	}
	if v := os.Getenv("HANDLERCHAIN_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// validate checks that the configuration is internally consistent.
func validate(cfg Config) error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", cfg.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Log.Format] {
		errs = append(errs, fmt.Errorf("log.format must be json or text; got %q", cfg.Log.Format))
	}
	validCloud := map[string]bool{"": true, "gcp": true, "gcp_with_resource": true}
	if !validCloud[cfg.Log.CloudFormat] {
		errs = append(errs, fmt.Errorf("log.cloud_format must be empty, gcp, or gcp_with_resource; got %q", cfg.Log.CloudFormat))
	}
	if cfg.Observability.OTelEnabled {
		if strings.TrimSpace(cfg.Observability.OTelEndpoint) == "" {
			errs = append(errs, errors.New("observability.otel_endpoint is required when otel_enabled is true"))
		}
		if cfg.Observability.OTelServiceName == "" {
			errs = append(errs, errors.New("observability.otel_service_name is required when otel_enabled is true"))
		}
	}

	return errors.Join(errs...)
}
