package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides a *Tracer and shuts it down when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(
//	        func() tracer.Config { return tracer.Config{ServiceName: "orders-api"} },
//	        func(l *logger.Logger) tracer.Logger { return l },
//	    ),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterTracerLifecycle),
)

// NewClientWithDI creates a Tracer from injected dependencies.
func NewClientWithDI(cfg Config, logger Logger) (*Tracer, error) {
	return NewClient(cfg, logger)
}

// RegisterTracerLifecycle registers an OnStop hook that flushes pending spans
// and shuts the provider down.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tracer.Shutdown(ctx)
		},
	})
}
