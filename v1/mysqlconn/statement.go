package mysqlconn

import (
	"context"
	"database/sql"
)

// Statement is a server-side prepared statement bound to the session that
// prepared it. It becomes unusable once that session is disconnected.
type Statement struct {
	stmt    *sql.Stmt
	query   string
	session Session
	driver  Driver
}

// SQL returns the statement text.
func (s *Statement) SQL() string { return s.query }

// Execute runs the statement with args and classifies its outcome the same
// way Executor.Execute does.
func (s *Statement) Execute(ctx context.Context, args ...any) (*Result, error) {
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, newInvalidQueryError(err)
	}
	return buildResult(ctx, s.driver, s.session, rows)
}

// Close deallocates the statement on the server.
func (s *Statement) Close() error {
	return s.stmt.Close()
}
