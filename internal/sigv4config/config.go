// Package sigv4config loads the YAML configuration for the sigv4sign
// demo CLI: which credentials and region/service to sign for, how
// large a processing buffer to allocate, and the ambient logging and
// metrics settings around it.
package sigv4config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level sigv4sign configuration document.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Signing     SigningConfig     `yaml:"signing"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
	Rotate      RotateConfig      `yaml:"rotate"`
}

// CredentialsConfig names the access key pair used to sign. sigv4sign
// has no fallback when AccessKeyID is empty: signing once exits with a
// usage message, and -serve mode skips the re-signing demo.
type CredentialsConfig struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SecurityToken   string `yaml:"security_token,omitempty"`
}

// SigningConfig holds the region/service/algorithm and buffer sizing
// passed through to sigv4.Parameters.
type SigningConfig struct {
	Region             string `yaml:"region"`
	Service            string `yaml:"service"`
	Algorithm          string `yaml:"algorithm,omitempty"`
	ProcessingBufferLen int   `yaml:"processing_buffer_len,omitempty"`
	MaxHeaderPairCount int    `yaml:"max_header_pair_count,omitempty"`
	MaxQueryPairCount  int    `yaml:"max_query_pair_count,omitempty"`
}

// MetricsConfig holds the demo /metrics server configuration used by
// "sigv4sign -serve".
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LoggingConfig holds the logging level, in the same shape as the
// internal/logging package's SetLevel input.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RotateConfig drives the optional cron-scheduled re-signing demo in
// "sigv4sign -serve" mode.
type RotateConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule,omitempty"` // 5-field cron expression or a descriptor such as "@every 5m"
}

// Load reads path, expands ${VAR}/$VAR environment references (so
// secrets can be injected without editing the file), parses it as
// YAML, and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sigv4config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("sigv4config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Defaults returns a Config with every field at its zero-config
// default, for callers (like the CLI with no -config flag) that build
// the rest of the configuration from flags/environment instead of a
// YAML file.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Signing.Region == "" {
		cfg.Signing.Region = "us-east-1"
	}
	if cfg.Signing.Service == "" {
		cfg.Signing.Service = "execute-api"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Rotate.Enabled && cfg.Rotate.Schedule == "" {
		cfg.Rotate.Schedule = "@every 5m"
	}
}

// RotateInterval estimates the wall-clock interval implied by
// Rotate.Schedule, for logging purposes only — the actual scheduling
// is done by robfig/cron, which parses the expression itself.
func RotateInterval(schedule string) (time.Duration, error) {
	const prefix = "@every "
	if len(schedule) > len(prefix) && schedule[:len(prefix)] == prefix {
		return time.ParseDuration(schedule[len(prefix):])
	}
	return 0, fmt.Errorf("sigv4config: cannot estimate interval for schedule %q", schedule)
}
