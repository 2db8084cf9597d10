// Package observability wires OpenTelemetry tracing and metrics for
// restkit clients.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
// Clients pick the global providers up automatically; pass explicit
// providers to httpclient.New to isolate them.
package observability
