// Package observability provides OpenTelemetry meter and tracer setup for
// applications hosting a container.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// The resulting providers plug into the container through its options:
//
//	c, err := container.New(p, factories,
//	    container.WithMeter(observability.Meter("my-service")),
//	    container.WithTracer(observability.Tracer("my-service")),
//	)
package observability
