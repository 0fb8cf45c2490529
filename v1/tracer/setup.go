package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Logger defines the logging contract of the tracer package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Tracer wraps an OpenTelemetry SDK TracerProvider with a small span API.
// It is safe for concurrent use.
type Tracer struct {
	provider *sdktrace.TracerProvider
	logger   Logger
}

// NewClient creates a Tracer, installs its provider as the global provider
// and configures W3C trace context propagation.
//
// Parameters:
//   - cfg: service identity and export settings
//   - logger: receives initialisation and shutdown events
//   - opts: extra provider options, e.g. sdktrace.WithSpanProcessor in tests
//
// Returns:
//   - *Tracer: the configured tracer
//   - error: when the OTLP exporter cannot be created
//
// Example:
//
//	tr, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "sqlconn",
//	    EnableExport: true,
//	}, log)
//	if err != nil {
//	    return err
//	}
//	defer tr.Shutdown(context.Background())
//
//	client.WithTracerProvider(tr.Provider())
func NewClient(cfg Config, logger Logger, opts ...sdktrace.TracerProviderOption) (*Tracer, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			logger.Error("cannot initiate tracer", err)
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))
	options = append(options, opts...)

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Debug("tracer initialised", nil, map[string]interface{}{
		"service": cfg.ServiceName,
		"export":  cfg.EnableExport,
	})

	return &Tracer{provider: tp, logger: logger}, nil
}

// Provider returns the underlying provider, for components that start their
// own spans.
func (t *Tracer) Provider() trace.TracerProvider {
	return t.provider
}

// Shutdown flushes pending spans and releases exporter resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	t.logger.Info("shutting down tracer", nil)
	return t.provider.Shutdown(ctx)
}
