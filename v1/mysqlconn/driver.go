package mysqlconn

import (
	"context"
	"database/sql"
	"fmt"
)

const rowCountQuery = "SELECT ROW_COUNT(), LAST_INSERT_ID()"

// ResultSource is what the executor hands the driver after a statement ran.
// Exactly one field is set: Rows for a tabular result, Session for a
// statement that produced no result set.
type ResultSource struct {
	Rows    *sql.Rows
	Session Session
}

// Driver builds result and statement objects from raw driver output.
type Driver interface {
	// CreateResult consumes src and returns the result representation. When
	// src.Rows is set the driver owns it and must close it.
	CreateResult(ctx context.Context, src ResultSource) (*Result, error)

	// CreateStatement prepares query on session.
	CreateStatement(ctx context.Context, session Session, query string) (*Statement, error)
}

type bufferingDriver struct{}

// NewDriver returns the default Driver. It buffers tabular results in memory,
// converting []byte column values to strings, and reads the affected row count
// and generated value from the session for everything else.
func NewDriver() Driver {
	return bufferingDriver{}
}

func (d bufferingDriver) CreateResult(ctx context.Context, src ResultSource) (*Result, error) {
	if src.Rows == nil {
		return d.summaryResult(ctx, src.Session)
	}
	return d.tabularResult(src.Rows)
}

func (bufferingDriver) tabularResult(rows *sql.Rows) (*Result, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{columns: columns, isQueryResult: true}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.rows = append(result.rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (bufferingDriver) summaryResult(ctx context.Context, session Session) (*Result, error) {
	if session == nil {
		return nil, fmt.Errorf("result source carries neither rows nor a session")
	}

	var affected, generated sql.NullInt64
	if err := session.QueryRowContext(ctx, rowCountQuery).Scan(&affected, &generated); err != nil {
		return nil, fmt.Errorf("failed to read statement summary: %w", err)
	}

	return &Result{affectedRows: affected.Int64, generatedValue: generated.Int64}, nil
}

func (d bufferingDriver) CreateStatement(ctx context.Context, session Session, query string) (*Statement, error) {
	stmt, err := session.PrepareContext(ctx, query)
	if err != nil {
		return nil, newInvalidQueryError(err)
	}
	return &Statement{stmt: stmt, query: query, session: session, driver: d}, nil
}

// buildResult classifies rows and lets driver turn them into a *Result.
// Rows without columns are closed and the summary is read from session.
// A failure while reading, such as a server error sent after the first rows,
// is an *InvalidQueryError and no partial result is returned.
func buildResult(ctx context.Context, driver Driver, session Session, rows *sql.Rows) (*Result, error) {
	result, err := classifyResult(ctx, driver, session, rows)
	if err != nil {
		return nil, asQueryError(err)
	}
	return result, nil
}

func classifyResult(ctx context.Context, driver Driver, session Session, rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, newInvalidQueryError(err)
	}

	if len(columns) == 0 {
		if err := rows.Close(); err != nil {
			return nil, newInvalidQueryError(err)
		}
		return driver.CreateResult(ctx, ResultSource{Session: session})
	}

	return driver.CreateResult(ctx, ResultSource{Rows: rows})
}
