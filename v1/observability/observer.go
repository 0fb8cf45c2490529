// Package observability defines the hook through which std components report the
// operations they perform. Components call an Observer after every operation;
// implementations turn those notifications into metrics, traces or logs.
//
// The metrics package ships a Prometheus-backed implementation,
// (*metrics.Metrics).ObserveOperation.
package observability

import "time"

// Observer receives a notification for every operation a component performs.
// Implementations must be cheap and must not block; they run inline on the
// caller's goroutine.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single finished operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "mysqlconn".
	Component string

	// Operation is the verb, e.g. "connect", "execute", "commit".
	Operation string

	// Resource identifies what was operated on (a host, a schema, ...).
	Resource string

	// SubResource carries additional context such as a statement kind.
	SubResource string

	// Duration is the wall time the operation took.
	Duration time.Duration

	// Error is the error the operation returned, nil on success.
	Error error

	// Size is an operation-specific amount, e.g. rows returned or affected.
	Size int64

	// Metadata holds any extra key/value pairs worth reporting.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
