package observability

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/dmnkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// TLS is the client TLS config used when Insecure is false. Nil means
	// the system roots.
	TLS *tls.Config
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	switch {
	case config.Insecure:
		opts = append(opts, otlpmetrichttp.WithInsecure())
	case config.TLS != nil:
		opts = append(opts, otlpmetrichttp.WithTLSClientConfig(config.TLS))
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the bootstrap instruments.
type Metrics struct {
	autoConfigurations  metric.Int64Counter
	autoConfigDuration  metric.Float64Histogram
	resourcesDiscovered metric.Int64Counter
	configurersApplied  metric.Int64Counter
	engineBuilds        metric.Int64Counter
	errorTotal          metric.Int64Counter
}

// NewMetrics creates the instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	autoConfigurations, err := meter.Int64Counter("dmnkit.autoconfigure.total",
		metric.WithDescription("Auto-configurations evaluated, by name and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.autoconfigure.total counter: %w", err)
	}

	autoConfigDuration, err := meter.Float64Histogram("dmnkit.autoconfigure.duration",
		metric.WithDescription("Duration of auto-configurations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.autoconfigure.duration histogram: %w", err)
	}

	resourcesDiscovered, err := meter.Int64Counter("dmnkit.resources.discovered",
		metric.WithDescription("Deployment resources discovered, by engine"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.resources.discovered counter: %w", err)
	}

	configurersApplied, err := meter.Int64Counter("dmnkit.configurers.applied",
		metric.WithDescription("Configurer callbacks applied, by engine"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.configurers.applied counter: %w", err)
	}

	engineBuilds, err := meter.Int64Counter("dmnkit.engine.builds",
		metric.WithDescription("Engines built, by engine"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.engine.builds counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("dmnkit.error.total",
		metric.WithDescription("Bootstrap errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dmnkit.error.total counter: %w", err)
	}

	return &Metrics{
		autoConfigurations:  autoConfigurations,
		autoConfigDuration:  autoConfigDuration,
		resourcesDiscovered: resourcesDiscovered,
		configurersApplied:  configurersApplied,
		engineBuilds:        engineBuilds,
		errorTotal:          errorTotal,
	}, nil
}

// RecordAutoConfiguration records one evaluated auto-configuration.
func (m *Metrics) RecordAutoConfiguration(ctx context.Context, name, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.autoConfigurations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("name", name),
		attribute.String("outcome", outcome),
	))
	m.autoConfigDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("name", name),
	))
}

// RecordResources adds n discovered resources for engine.
func (m *Metrics) RecordResources(ctx context.Context, engine string, n int) {
	if m == nil {
		return
	}
	m.resourcesDiscovered.Add(ctx, int64(n), metric.WithAttributes(attribute.String("engine", engine)))
}

// RecordConfigurers adds n applied configurers for engine.
func (m *Metrics) RecordConfigurers(ctx context.Context, engine string, n int) {
	if m == nil {
		return
	}
	m.configurersApplied.Add(ctx, int64(n), metric.WithAttributes(attribute.String("engine", engine)))
}

// RecordEngineBuild counts a built engine.
func (m *Metrics) RecordEngineBuild(ctx context.Context, engine string) {
	if m == nil {
		return
	}
	m.engineBuilds.Add(ctx, 1, metric.WithAttributes(attribute.String("engine", engine)))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
