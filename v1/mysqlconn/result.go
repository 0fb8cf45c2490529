package mysqlconn

// Result is the outcome of one executed statement. A query result carries
// columns and buffered rows; any other statement carries the number of
// affected rows and the generated value, if any.
type Result struct {
	columns []string
	rows    [][]any

	affectedRows   int64
	generatedValue int64

	isQueryResult bool
}

// IsQueryResult reports whether the statement produced a result set.
func (r *Result) IsQueryResult() bool { return r.isQueryResult }

// Columns returns the column names of a query result.
func (r *Result) Columns() []string { return r.columns }

// Rows returns the buffered rows of a query result.
func (r *Result) Rows() [][]any { return r.rows }

// RowCount is the number of rows in a query result.
func (r *Result) RowCount() int { return len(r.rows) }

// FieldCount is the number of columns in a query result.
func (r *Result) FieldCount() int { return len(r.columns) }

// AffectedRows is the server's ROW_COUNT() for a statement without a result set.
// For a query result it is the number of rows returned.
func (r *Result) AffectedRows() int64 {
	if r.isQueryResult {
		return int64(len(r.rows))
	}
	return r.affectedRows
}

// GeneratedValue is LAST_INSERT_ID() as read right after the statement, or 0
// for tabular results. Explicit AUTO_INCREMENT values do not change it.
func (r *Result) GeneratedValue() int64 { return r.generatedValue }

// Value returns the value at row, col, and false if either is out of range.
func (r *Result) Value(row, col int) (any, bool) {
	if row < 0 || row >= len(r.rows) || col < 0 || col >= len(r.rows[row]) {
		return nil, false
	}
	return r.rows[row][col], true
}
