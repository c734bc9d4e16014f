package observability

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kbukum/dmnkit/config"
	"github.com/kbukum/dmnkit/security"
	"github.com/kbukum/dmnkit/validation"
)

// Config is the observability section of the application config.
type Config struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	MetricInterval string  `yaml:"metric_interval" mapstructure:"metric_interval"`

	// TLS secures the collector connection when Insecure is false.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// DefaultConfig returns a disabled config pointing at a local collector.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
		MetricInterval: "15s",
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Enabled {
		if err := validation.Required("observability.endpoint", c.Endpoint); err != nil {
			return err
		}
	}
	if c.MetricInterval != "" {
		if _, err := time.ParseDuration(c.MetricInterval); err != nil {
			return fmt.Errorf("observability.metric_interval: %w", err)
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("observability.%w", err)
	}
	return nil
}

// ShutdownFunc flushes and stops the providers installed by Init.
type ShutdownFunc func(ctx context.Context) error

// Init installs OTLP tracer and meter providers for the service when cfg is
// enabled. When disabled it installs nothing and returns a no-op shutdown.
func Init(ctx context.Context, cfg Config, svc *config.ServiceConfig) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var tlsCfg *tls.Config
	if !cfg.Insecure {
		built, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		tlsCfg = built
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    svc.Name,
		ServiceVersion: svc.Version,
		Environment:    svc.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		SampleRate:     cfg.SampleRate,
		TLS:            tlsCfg,
	})
	if err != nil {
		return nil, err
	}

	interval, _ := time.ParseDuration(cfg.MetricInterval)
	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    svc.Name,
		ServiceVersion: svc.Version,
		Environment:    svc.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       interval,
		TLS:            tlsCfg,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
