package commands

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Aleph-Alpha/sqlconn/v1/logger"
	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
	"github.com/Aleph-Alpha/sqlconn/v1/tracer"
)

const rowCountQuery = "SELECT ROW_COUNT(), LAST_INSERT_ID()"

func newMockRuntime(t *testing.T, format string) (*Runtime, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.MonitorPingsOption(true),
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rt := &Runtime{
		Format: format,
		NewClient: func() (*mysqlconn.Client, error) {
			client, err := mysqlconn.NewClient(mysqlconn.Parameters{"host": "db1"})
			if err != nil {
				return nil, err
			}
			return client.WithDialer(mysqlconn.DialerFunc(
				func(context.Context, *mysql.Config) (*sql.DB, error) { return db, nil },
			)), nil
		},
	}
	return rt, mock
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecRendersQueryAsTable(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")

	mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("alice")).
			AddRow(int64(2), nil),
	)
	mock.ExpectClose()

	out, err := runCommand(t, NewExecCommand(rt), "SELECT id, name FROM users")
	require.NoError(t, err)

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatementsShareOneConnection(t *testing.T) {
	rt, mock := newMockRuntime(t, "json")

	mock.ExpectQuery("INSERT INTO users (name) VALUES ('carol')").WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectQuery(rowCountQuery).
		WillReturnRows(sqlmock.NewRows([]string{"ROW_COUNT()", "LAST_INSERT_ID()"}).AddRow(int64(1), int64(7)))
	mock.ExpectPing()
	mock.ExpectQuery("SELECT COUNT(*) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(3)))
	mock.ExpectClose()

	out, err := runCommand(t, NewExecCommand(rt),
		"INSERT INTO users (name) VALUES ('carol')",
		"SELECT COUNT(*) FROM users",
	)
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewBufferString(out))
	var status map[string]any
	require.NoError(t, dec.Decode(&status))
	assert.EqualValues(t, 1, status["affected_rows"])
	assert.EqualValues(t, 7, status["generated_value"])

	var rows []map[string]any
	require.NoError(t, dec.Decode(&rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0]["COUNT(*)"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTransactionRollsBackOnFailure(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")

	mock.ExpectExec("SET autocommit = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPing()
	mock.ExpectQuery("UPDATE accounts SET balance = balance -").
		WillReturnError(&mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"})
	mock.ExpectExec("ROLLBACK").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET autocommit = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	_, err := runCommand(t, NewExecCommand(rt), "--tx", "UPDATE accounts SET balance = balance -")
	require.Error(t, err)
	assert.True(t, mysqlconn.IsInvalidQuery(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTracesCommand(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")
	recorder := tracetest.NewSpanRecorder()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "sqlconn-test"}, logger.NewNop(),
		sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	rt.Tracer = tr

	mock.ExpectQuery("SELEC 1").WillReturnError(&mysql.MySQLError{Number: 1064, Message: "syntax error"})
	mock.ExpectClose()

	_, err = runCommand(t, NewExecCommand(rt), "SELEC 1")
	require.Error(t, err)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	root := spans[len(spans)-1]
	assert.Equal(t, "sqlconn.exec", root.Name())
	assert.Equal(t, codes.Error, root.Status().Code)
}

func TestExecRequiresStatement(t *testing.T) {
	rt, _ := newMockRuntime(t, "table")
	_, err := runCommand(t, NewExecCommand(rt))
	require.Error(t, err)
}

func TestPingPrintsServerVersion(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")

	mock.ExpectPing()
	mock.ExpectPing()
	mock.ExpectQuery("SELECT VERSION()").
		WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow([]byte("11.4.2-MariaDB")))
	mock.ExpectClose()

	out, err := runCommand(t, NewPingCommand(rt))
	require.NoError(t, err)
	assert.Equal(t, "version: 11.4.2-MariaDB\n", out)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingFailsWhenProbeFails(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")

	mock.ExpectPing().WillReturnError(errors.New("server has gone away"))
	mock.ExpectClose()

	_, err := runCommand(t, NewPingCommand(rt))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liveness probe")
}

func TestSchemaWithoutDefaultDatabase(t *testing.T) {
	rt, mock := newMockRuntime(t, "json")

	mock.ExpectQuery("SELECT DATABASE()").
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow(nil))
	mock.ExpectClose()

	out, err := runCommand(t, NewSchemaCommand(rt))
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema": null}`, out)
}

func TestSchemaPrintsSelectedDatabase(t *testing.T) {
	rt, mock := newMockRuntime(t, "table")

	mock.ExpectQuery("SELECT DATABASE()").
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow([]byte("orders")))
	mock.ExpectClose()

	out, err := runCommand(t, NewSchemaCommand(rt))
	require.NoError(t, err)
	assert.Equal(t, "schema: orders\n", out)
}

func TestRuntimeClosesInReverseOrder(t *testing.T) {
	rt := &Runtime{}
	var order []string
	rt.OnClose(func(context.Context) error { order = append(order, "first"); return nil })
	rt.OnClose(func(context.Context) error { order = append(order, "second"); return errors.New("flush failed") })

	err := rt.Close(context.Background())
	require.EqualError(t, err, "flush failed")
	assert.Equal(t, []string{"second", "first"}, order)

	require.NoError(t, rt.Close(context.Background()), "closers run once")
}

func TestRuntimeWithoutClientFactory(t *testing.T) {
	_, err := runCommand(t, NewSchemaCommand(&Runtime{}))
	require.EqualError(t, err, "no connection configured")
}
