package mysqlconn

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
)

// Dialer performs the network handshake and returns a database limited to a
// single physical connection. The Connection pins that connection and owns
// the returned *sql.DB from then on.
type Dialer interface {
	Dial(ctx context.Context, cfg *mysql.Config) (*sql.DB, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, cfg *mysql.Config) (*sql.DB, error)

// Dial calls f(ctx, cfg).
func (f DialerFunc) Dial(ctx context.Context, cfg *mysql.Config) (*sql.DB, error) {
	return f(ctx, cfg)
}

// ConnectorDialer opens a single-connection database from the driver's
// connector and pings it within ctx to complete the handshake.
type ConnectorDialer struct {
	// openDB builds the *sql.DB; tests replace it.
	openDB func(cfg *mysql.Config) (*sql.DB, error)
}

// Dial implements Dialer.
func (d ConnectorDialer) Dial(ctx context.Context, cfg *mysql.Config) (*sql.DB, error) {
	open := d.openDB
	if open == nil {
		open = openConnector
	}

	sqlDB, err := open(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func openConnector(cfg *mysql.Config) (*sql.DB, error) {
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}
