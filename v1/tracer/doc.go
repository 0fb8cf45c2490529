// Package tracer sets up OpenTelemetry tracing: an SDK tracer provider with
// service resource attributes, optional OTLP/HTTP export, W3C propagation,
// and a small span helper API.
//
// Basic usage:
//
//	tr, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "sqlconn",
//		EnableExport: true,
//		Endpoint:     "http://localhost:4318",
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer tr.Shutdown(ctx)
//
//	client.WithTracerProvider(tr.Provider())
//
//	ctx, span := tr.StartSpan(ctx, "import-orders")
//	defer span.End()
//	if err := run(ctx); err != nil {
//		tr.RecordErrorOnSpan(span, err)
//	}
package tracer
