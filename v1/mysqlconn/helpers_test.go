package mysqlconn

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

// mockServer is one sqlmock-backed database handed out by scriptedDialer.
type mockServer struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.MonitorPingsOption(true),
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &mockServer{db: db, mock: mock}
}

func (s *mockServer) expectationsMet(t *testing.T) {
	t.Helper()
	require.NoError(t, s.mock.ExpectationsWereMet())
}

// scriptedDialer returns its servers in order and records every config it
// was asked to dial.
type scriptedDialer struct {
	servers []*mockServer
	configs []*mysql.Config
	err     error
}

func (d *scriptedDialer) Dial(_ context.Context, cfg *mysql.Config) (*sql.DB, error) {
	d.configs = append(d.configs, cfg)
	if d.err != nil {
		return nil, d.err
	}
	if len(d.servers) == 0 {
		return nil, errors.New("no server left to dial")
	}
	s := d.servers[0]
	d.servers = d.servers[1:]
	return s.db, nil
}

func newTestClient(t *testing.T, params Parameters, servers ...*mockServer) (*Client, *scriptedDialer) {
	t.Helper()

	client, err := NewClient(params)
	require.NoError(t, err)

	dialer := &scriptedDialer{servers: servers}
	client.WithDialer(dialer)
	return client, dialer
}

func rowsOf(columns []string, values ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows(columns)
	for _, v := range values {
		rows.AddRow(v)
	}
	return rows
}

// recordingObserver collects every observed operation.
type recordingObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, ctx)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.operations))
	for _, op := range r.operations {
		out = append(out, op.Operation)
	}
	return out
}

func (r *recordingObserver) last() observability.OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.operations[len(r.operations)-1]
}
