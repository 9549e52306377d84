// Package config loads primesd settings from a YAML file and PRIMES_*
// environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/prime"
	"github.com/jonwraymond/primeops/secret"
)

// EnvPrefix prefixes every environment override, e.g. PRIMES_SERVER_ADDR.
const EnvPrefix = "PRIMES"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full primesd configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Observe ObserveConfig `mapstructure:"observe"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// EngineConfig configures the prime engine.
type EngineConfig struct {
	// Seed makes Miller-Rabin reproducible. Zero uses the process-wide
	// random source.
	Seed uint64 `mapstructure:"seed"`

	// MaxSieveBound is the largest bound the Sieve algorithm accepts.
	MaxSieveBound int `mapstructure:"max_sieve_bound"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	// WarnEntries is the entry count above which the cache health check
	// reports degraded. Zero disables the check.
	WarnEntries int `mapstructure:"warn_entries"`
}

// LimitsConfig configures admission control on /primes.
type LimitsConfig struct {
	Rate          float64       `mapstructure:"rate"`
	Burst         int           `mapstructure:"burst"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	MaxWait       time.Duration `mapstructure:"max_wait"`
}

// AuthConfig configures optional authentication. APIKeys entries have the
// form "principal=key"; keys and the JWT secret may be secret references.
type AuthConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	APIKeys     []string `mapstructure:"api_keys"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	JWTIssuer   string   `mapstructure:"jwt_issuer"`
	JWTAudience string   `mapstructure:"jwt_audience"`
}

// APIKey is a parsed AuthConfig.APIKeys entry.
type APIKey struct {
	Principal string
	Key       string
}

// ParsedAPIKeys splits APIKeys into principal/key pairs.
func (a AuthConfig) ParsedAPIKeys() ([]APIKey, error) {
	out := make([]APIKey, 0, len(a.APIKeys))
	for i, entry := range a.APIKeys {
		principal, key, ok := strings.Cut(entry, "=")
		if !ok || principal == "" || key == "" {
			return nil, fmt.Errorf("%w: auth.api_keys[%d] must be principal=key", ErrInvalidConfig, i)
		}
		out = append(out, APIKey{Principal: principal, Key: key})
	}
	return out, nil
}

// ObserveConfig mirrors observe.Config in file form.
type ObserveConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Version     string `mapstructure:"version"`
	Tracing     struct {
		Enabled   bool    `mapstructure:"enabled"`
		Exporter  string  `mapstructure:"exporter"`
		SamplePct float64 `mapstructure:"sample_pct"`
	} `mapstructure:"tracing"`
	Metrics struct {
		Enabled  bool   `mapstructure:"enabled"`
		Exporter string `mapstructure:"exporter"`
	} `mapstructure:"metrics"`
	Logging struct {
		Enabled bool   `mapstructure:"enabled"`
		Level   string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// Telemetry converts to the observe package's configuration.
func (c *Config) Telemetry() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     o.Version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("engine.seed", 0)
	v.SetDefault("engine.max_sieve_bound", prime.DefaultMaxSieveBound)

	v.SetDefault("cache.warn_entries", 100_000)

	v.SetDefault("limits.rate", 50.0)
	v.SetDefault("limits.burst", 20)
	v.SetDefault("limits.max_concurrent", 8)
	v.SetDefault("limits.max_wait", "0s")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "")
	v.SetDefault("auth.jwt_audience", "")

	v.SetDefault("observe.service_name", "primesd")
	v.SetDefault("observe.version", "")
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.enabled", true)
	v.SetDefault("observe.metrics.exporter", "prometheus")
	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", "info")
}

// Load reads configuration from path (YAML) and the environment, resolves
// secret references and validates the result. An empty path looks for
// primesd.yaml in the working directory and falls back to defaults when it
// is absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("primesd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.ResolveSecrets(context.Background(), secret.DefaultResolver()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveSecrets replaces secret references in the auth section. Nothing is
// resolved while auth is disabled.
func (c *Config) ResolveSecrets(ctx context.Context, r *secret.Resolver) error {
	if !c.Auth.Enabled {
		return nil
	}

	keys, err := c.Auth.ParsedAPIKeys()
	if err != nil {
		return err
	}
	for i, k := range keys {
		key, err := r.Resolve(ctx, k.Key)
		if err != nil {
			return fmt.Errorf("resolve auth.api_keys[%d]: %w", i, err)
		}
		c.Auth.APIKeys[i] = k.Principal + "=" + key
	}

	if c.Auth.JWTSecret != "" {
		s, err := r.Resolve(ctx, c.Auth.JWTSecret)
		if err != nil {
			return fmt.Errorf("resolve auth.jwt_secret: %w", err)
		}
		c.Auth.JWTSecret = s
	}
	return nil
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.Addr == "" {
		bad("server.addr is required")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		bad("server.read_header_timeout must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		bad("server.shutdown_timeout must be positive")
	}
	if c.Engine.MaxSieveBound < 0 {
		bad("engine.max_sieve_bound must not be negative")
	}
	if c.Cache.WarnEntries < 0 {
		bad("cache.warn_entries must not be negative")
	}
	if c.Limits.Rate < 0 {
		bad("limits.rate must not be negative")
	}
	if c.Limits.Burst < 0 {
		bad("limits.burst must not be negative")
	}
	if c.Limits.MaxConcurrent < 0 {
		bad("limits.max_concurrent must not be negative")
	}
	if c.Limits.MaxWait < 0 {
		bad("limits.max_wait must not be negative")
	}
	if c.Auth.Enabled {
		if len(c.Auth.APIKeys) == 0 && c.Auth.JWTSecret == "" {
			bad("auth.enabled requires auth.api_keys or auth.jwt_secret")
		}
		if _, err := c.Auth.ParsedAPIKeys(); err != nil {
			errs = append(errs, err)
		}
	}
	tc := c.Telemetry()
	if err := tc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}
