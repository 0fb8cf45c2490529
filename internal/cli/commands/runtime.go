// Package commands implements the sqlconn subcommands.
package commands

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
	"github.com/Aleph-Alpha/sqlconn/v1/tracer"
)

// Runtime carries what the root command sets up once flags and config are
// known. Commands receive a pointer at construction time and read it when run.
type Runtime struct {
	// Format is one of table, json, yaml or csv.
	Format string

	// NewClient builds an unconnected client from the loaded configuration.
	NewClient func() (*mysqlconn.Client, error)

	// Tracer is nil unless tracing is enabled.
	Tracer *tracer.Tracer

	closers []func(context.Context) error
}

// OnClose registers fn to run when the command finishes.
func (rt *Runtime) OnClose(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

// Close runs the registered closers in reverse order.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i](ctx))
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// startSpan starts a command span when tracing is enabled. The returned
// function ends it, recording *errp if set.
func (rt *Runtime) startSpan(ctx context.Context, name string, attrs map[string]interface{}) (context.Context, func(errp *error)) {
	if rt.Tracer == nil {
		return ctx, func(*error) {}
	}

	ctx, span := rt.Tracer.StartSpan(ctx, name)
	rt.Tracer.SetAttributes(span, attrs)
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			rt.Tracer.RecordErrorOnSpan(span, *errp)
		}
		span.End()
	}
}

// connect builds a client and returns it with a function that disconnects it.
func (rt *Runtime) connect() (*mysqlconn.Client, func(), error) {
	if rt.NewClient == nil {
		return nil, nil, errors.New("no connection configured")
	}
	client, err := rt.NewClient()
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Disconnect() }, nil
}
