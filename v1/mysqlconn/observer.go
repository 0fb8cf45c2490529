package mysqlconn

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

const (
	componentName       = "mysqlconn"
	instrumentationName = "github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
)

// instruments is shared by the three components of a Client so that the
// chainable With* setters reach all of them.
type instruments struct {
	logger   Logger
	observer observability.Observer
	tracer   trace.Tracer
	driver   Driver
}

// observeOperation notifies the observer, if one is configured.
func (i *instruments) observeOperation(operation, resource string, start time.Time, err error, size int64) {
	if i == nil || i.observer == nil {
		return
	}

	i.observer.ObserveOperation(observability.OperationContext{
		Component: componentName,
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}

func (i *instruments) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, opts...)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
