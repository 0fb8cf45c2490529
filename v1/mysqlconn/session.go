package mysqlconn

import (
	"context"
	"database/sql"
	"errors"
)

// Session is the live server session a Connection hands out. It can run
// statements but has no Close: only the owning Connection ends a session.
type Session interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	PingContext(ctx context.Context) error
}

// handle owns one physical connection and, when the Connection dialed it
// itself, the single-connection *sql.DB it was taken from.
type handle struct {
	conn *sql.Conn
	db   *sql.DB

	// version caches ServerVersion for this session.
	version string
}

func (h *handle) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return h.conn.QueryContext(ctx, query, args...)
}

func (h *handle) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return h.conn.QueryRowContext(ctx, query, args...)
}

func (h *handle) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return h.conn.ExecContext(ctx, query, args...)
}

func (h *handle) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return h.conn.PrepareContext(ctx, query)
}

func (h *handle) PingContext(ctx context.Context) error {
	return h.conn.PingContext(ctx)
}

// close releases the connection and, if owned, the database it came from.
func (h *handle) close() error {
	err := h.conn.Close()
	if errors.Is(err, sql.ErrConnDone) {
		err = nil
	}
	if h.db != nil {
		err = errors.Join(err, h.db.Close())
	}
	return err
}
