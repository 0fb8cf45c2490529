package mysqlconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/sqlconn/v1/logger"
	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

// Client is the single-connection MySQL client. It combines the connection
// lifecycle, transaction control and statement execution over one session.
//
// A Client is not safe for concurrent use; callers sharing one must
// synchronise access themselves.
type Client struct {
	*Connection
	*Transactions
	*Executor

	inst *instruments
}

// NewClient creates a Client without connecting.
//
// Parameters:
//   - info: how to reach the server. One of:
//   - nil: configuration is deferred, see Connection.SetParameters
//   - Parameters or map[string]any: raw connection parameters, see ResolveConfig
//   - *sql.Conn: an already established session, used as is
//
// Returns:
//   - *Client: the client, not yet connected unless a *sql.Conn was given
//   - error: an *InvalidArgumentError for any other type of info
//
// Example:
//
//	client, err := mysqlconn.NewClient(mysqlconn.Parameters{
//	    "host": "db1",
//	    "user": "app",
//	    "db":   "orders",
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	result, err := client.Execute(ctx, "SELECT 1")
func NewClient(info any) (*Client, error) {
	inst := &instruments{
		logger: logger.NewNop(),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		driver: NewDriver(),
	}

	conn := &Connection{
		dialer:       ConnectorDialer{},
		probeTimeout: DefaultProbeTimeout,
		inst:         inst,
	}

	switch v := info.(type) {
	case nil:
	case Parameters:
		conn.params = v
	case map[string]any:
		conn.params = Parameters(v)
	case *sql.Conn:
		if v == nil {
			return nil, &InvalidArgumentError{Param: "info", Err: errors.New("nil *sql.Conn")}
		}
		conn.h = &handle{conn: v}
	default:
		return nil, &InvalidArgumentError{
			Param: "info",
			Err:   fmt.Errorf("expected connection parameters or *sql.Conn, got %T", info),
		}
	}

	return &Client{
		Connection:   conn,
		Transactions: &Transactions{sessions: conn, inst: inst},
		Executor:     &Executor{sessions: conn, inst: inst},
		inst:         inst,
	}, nil
}

// NewClientFromConfig creates a Client from cfg, applying its probe timeout.
func NewClientFromConfig(cfg Config) (*Client, error) {
	client, err := NewClient(cfg.Parameters)
	if err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout > 0 {
		client.WithProbeTimeout(cfg.ProbeTimeout)
	}
	return client, nil
}

// WithLogger sets the logger used by every component of the client.
// A nil logger discards output.
func (c *Client) WithLogger(l Logger) *Client {
	if l == nil {
		l = logger.NewNop()
	}
	c.inst.logger = l
	return c
}

// WithObserver sets the observer notified after every operation.
// Passing nil disables observation.
func (c *Client) WithObserver(o observability.Observer) *Client {
	c.inst.observer = o
	return c
}

// WithDriver replaces the driver that builds results and statements.
func (c *Client) WithDriver(d Driver) *Client {
	if d != nil {
		c.inst.driver = d
	}
	return c
}

// WithDialer replaces the dialer used by Connect.
func (c *Client) WithDialer(d Dialer) *Client {
	if d != nil {
		c.Connection.dialer = d
	}
	return c
}

// WithTracerProvider sets the provider spans are started from. The global
// provider is used otherwise.
func (c *Client) WithTracerProvider(tp trace.TracerProvider) *Client {
	if tp != nil {
		c.inst.tracer = tp.Tracer(instrumentationName)
	}
	return c
}

// WithProbeTimeout bounds the ping IsConnected sends.
func (c *Client) WithProbeTimeout(d time.Duration) *Client {
	if d > 0 {
		c.Connection.probeTimeout = d
	}
	return c
}

// Transaction runs fn inside a transaction. It commits when fn returns nil
// and rolls back when fn returns an error or panics; a panic is re-raised
// after the rollback.
//
// Example:
//
//	err := client.Transaction(ctx, func(c *mysqlconn.Client) error {
//	    if _, err := c.Execute(ctx, "UPDATE accounts SET balance = balance - 10 WHERE id = 1"); err != nil {
//	        return err
//	    }
//	    _, err := c.Execute(ctx, "UPDATE accounts SET balance = balance + 10 WHERE id = 2")
//	    return err
//	})
func (c *Client) Transaction(ctx context.Context, fn func(c *Client) error) (err error) {
	if err := c.BeginTransaction(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := c.Rollback(ctx); rbErr != nil {
				c.inst.logger.Error("rollback after panic failed", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(c); err != nil {
		if rbErr := c.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return c.Commit(ctx)
}
