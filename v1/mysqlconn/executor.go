package mysqlconn

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Executor sends SQL text to the connection's session.
type Executor struct {
	sessions sessionSource
	inst     *instruments
}

// Execute runs query verbatim on a live session, reconnecting if needed.
//
// A statement the server rejects yields an *InvalidQueryError carrying the
// server's message. Otherwise the driver builds the result: buffered rows
// when the statement produced a result set, the affected row count and
// generated value when it did not.
func (e *Executor) Execute(ctx context.Context, query string) (result *Result, err error) {
	start := time.Now()
	ctx, span := e.inst.startSpan(ctx, "mysqlconn.Execute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mysql"),
			attribute.String("db.statement", query),
		),
	)
	defer func() {
		var size int64
		if result != nil {
			size = result.AffectedRows()
		}
		endSpan(span, err)
		e.inst.observeOperation("execute", "", start, err, size)
	}()

	s, err := e.sessions.liveSession(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.QueryContext(ctx, query)
	if err != nil {
		e.inst.logger.Debug("statement rejected", err, map[string]interface{}{"query": query})
		return nil, newInvalidQueryError(err)
	}

	return buildResult(ctx, e.inst.driver, s, rows)
}

// LastGeneratedValue returns LAST_INSERT_ID() of the current session.
// It does not connect; without a session it fails with a *StateError.
//
// LAST_INSERT_ID() only changes when the server generates a value. An INSERT
// that supplies its own AUTO_INCREMENT value therefore leaves it at the
// previous id, unlike the insert id of the statement's OK packet.
func (e *Executor) LastGeneratedValue(ctx context.Context) (int64, error) {
	s := e.sessions.currentSession()
	if s == nil {
		return 0, &StateError{Op: "last generated value", Err: ErrNotConnected}
	}

	var id int64
	if err := s.QueryRowContext(ctx, "SELECT LAST_INSERT_ID()").Scan(&id); err != nil {
		return 0, newInvalidQueryError(err)
	}
	return id, nil
}

// Prepare prepares query on a live session through the driver.
func (e *Executor) Prepare(ctx context.Context, query string) (stmt *Statement, err error) {
	start := time.Now()
	defer func() { e.inst.observeOperation("prepare", "", start, err, 0) }()

	s, err := e.sessions.liveSession(ctx)
	if err != nil {
		return nil, err
	}
	return e.inst.driver.CreateStatement(ctx, s, query)
}
