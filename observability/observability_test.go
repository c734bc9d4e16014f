package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/config"
	"github.com/kbukum/dmnkit/security"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("dmnkit")
	if cfg.ServiceName != "dmnkit" || cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("dmnkit")
	if cfg.ServiceName != "dmnkit" || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"enabled", func(c *Config) { c.Enabled = true }, false},
		{"enabled without endpoint", func(c *Config) { c.Enabled = true; c.Endpoint = "" }, true},
		{"sample rate too high", func(c *Config) { c.SampleRate = 2 }, true},
		{"bad interval", func(c *Config) { c.MetricInterval = "soon" }, true},
		{"tls half pair", func(c *Config) { c.TLS = security.TLSConfig{KeyFile: "k.pem"} }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(&c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), DefaultConfig(), &config.ServiceConfig{Name: "dmnkit"})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	ctx := context.Background()
	metrics.RecordAutoConfiguration(ctx, "dmn-engine", OutcomeMatched, time.Millisecond)
	metrics.RecordResources(ctx, "dmn", 2)
	metrics.RecordConfigurers(ctx, "dmn", 1)
	metrics.RecordEngineBuild(ctx, "dmn")
	metrics.RecordError(ctx, "DISCOVERY_FAILED", "dmn-engine")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordAutoConfiguration(ctx, "x", OutcomeSkipped, 0)
	m.RecordResources(ctx, "dmn", 1)
	m.RecordConfigurers(ctx, "dmn", 1)
	m.RecordEngineBuild(ctx, "dmn")
	m.RecordError(ctx, "X", "y")
}

func TestMetricsRecordResources(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	ctx := context.Background()
	metrics.RecordResources(ctx, "dmn", 2)
	metrics.RecordResources(ctx, "dmn", 3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "dmnkit.resources.discovered" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 5 {
		t.Errorf("expected 5 discovered resources, got %d", total)
	}
}

func TestStartSpanAndAttributes(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanDiscovery)
	SetSpanAttribute(ctx, AttrResourceCount, 4)
	SetSpanAttribute(ctx, AttrEngine, "dmn")
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, fmt.Errorf("io"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != SpanDiscovery {
		t.Fatalf("expected one %s span, got %d", SpanDiscovery, len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrResourceCount].AsInt64() != 4 || attrs[AttrEngine].AsString() != "dmn" {
		t.Errorf("unexpected attributes %v", attrs)
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected recorded error event")
	}
}

func TestOperationEnd(t *testing.T) {
	rec := installRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanAutoConfiguration, "dmn-engine", nil)
	op.SetAttributes(attribute.Bool(AttrConditionMatched, true))
	op.End(ctx, OutcomeFailed, fmt.Errorf("boom"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrAutoConfiguration].AsString() != "dmn-engine" {
		t.Errorf("expected name attribute, got %v", attrs)
	}
	if attrs[AttrStatus].AsString() != OutcomeFailed || attrs[AttrErrorMessage].AsString() != "boom" {
		t.Errorf("expected failure attributes, got %v", attrs)
	}
	if op.Duration() <= 0 {
		t.Error("expected positive duration")
	}
}

func TestFromComponents(t *testing.T) {
	tests := []struct {
		name    string
		results []component.Health
		want    HealthStatus
	}{
		{"empty", nil, HealthStatusUp},
		{"healthy", []component.Health{{Name: "a", Status: component.StatusHealthy}}, HealthStatusUp},
		{"degraded", []component.Health{
			{Name: "a", Status: component.StatusHealthy},
			{Name: "b", Status: component.StatusDegraded},
		}, HealthStatusDegraded},
		{"down wins", []component.Health{
			{Name: "a", Status: component.StatusUnhealthy},
			{Name: "b", Status: component.StatusDegraded},
		}, HealthStatusDown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh := FromComponents("dmnkit", "1.0.0", tc.results)
			if sh.Status != tc.want {
				t.Errorf("expected %s, got %s", tc.want, sh.Status)
			}
			if len(sh.Components) != len(tc.results) {
				t.Errorf("expected %d components, got %d", len(tc.results), len(sh.Components))
			}
		})
	}
}

func TestInitRejectsUnreadableCA(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Insecure = false
	cfg.TLS = security.TLSConfig{CAFile: "/nonexistent/ca.pem"}

	if _, err := Init(context.Background(), cfg, &config.ServiceConfig{Name: "dmnkit"}); err == nil {
		t.Error("expected Init to fail on an unreadable CA file")
	}
}
