// Package observability wires OpenTelemetry tracing and metrics for
// outgoing entity requests.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewRequestMetrics(observability.Meter("billing"))
//	metrics.RecordRequestEnd(ctx, "NG", "GET", 200, duration)
//
// Exporters speak OTLP over HTTP. Without Init* calls the global no-op
// providers are used and instrumentation costs nothing.
package observability
