// Package observability provides OpenTelemetry tracing and metrics for the
// bootstrap: a span per auto-configuration and counters for discovered
// resources and applied configurers.
//
// Tracing and metrics export over OTLP/HTTP when enabled:
//
//	shutdown, err := observability.Init(ctx, cfg.Observability, cfg.GetServiceConfig())
//	defer shutdown(ctx)
//
// Instruments work against the global providers, which are no-ops until
// Init installs real ones:
//
//	metrics, err := observability.NewMetrics(observability.Meter("dmnkit"))
//	metrics.RecordResources(ctx, "dmn", 3)
package observability
