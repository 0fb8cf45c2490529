package mysqlconn

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// sessionSource gives Transactions and Executor access to the session owned
// by a Connection without letting them replace or close it.
type sessionSource interface {
	// Session connects when no session exists and never probes.
	Session(ctx context.Context) (Session, error)

	// liveSession probes the current session and reconnects if it is gone.
	liveSession(ctx context.Context) (Session, error)

	// currentSession returns the session if one exists. It never connects.
	currentSession() Session
}

// Connection owns at most one live server session and its lifecycle.
// It is not safe for concurrent use.
type Connection struct {
	params       Parameters
	h            *handle
	dialer       Dialer
	probeTimeout time.Duration
	inst         *instruments
}

// Parameters returns the raw parameters used by the next Connect.
func (c *Connection) Parameters() Parameters {
	return c.params
}

// SetParameters replaces the raw parameters. An existing session is kept;
// the new parameters apply from the next Connect.
func (c *Connection) SetParameters(p Parameters) {
	c.params = p
}

// Connect opens a session unless one already exists.
//
// Parameters are resolved, the handshake is performed through the Dialer,
// and then any INIT_COMMAND driver option and the configured charset are
// applied. Failures after the handshake close the partial session.
func (c *Connection) Connect(ctx context.Context) (err error) {
	if c.h != nil {
		return nil
	}

	start := time.Now()
	var addr string

	ctx, span := c.inst.startSpan(ctx, "mysqlconn.Connect",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "mysql")),
	)
	defer func() {
		span.SetAttributes(attribute.String("server.address", addr))
		endSpan(span, err)
		c.inst.observeOperation("connect", addr, start, err, 0)
	}()

	cfg, err := ResolveConfig(c.params)
	if err != nil {
		return err
	}

	driverCfg, initCommands := buildDriverConfig(cfg, c.inst.logger)
	addr = driverCfg.Addr
	fields := map[string]interface{}{
		"address":  addr,
		"database": cfg.Database,
		"user":     cfg.Username,
	}

	db, err := c.dialer.Dial(ctx, driverCfg)
	if err != nil {
		c.inst.logger.Error("failed to connect to MySQL", err, fields)
		return newConnectionError(err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		c.inst.logger.Error("failed to acquire MySQL session", err, fields)
		return newConnectionError(err)
	}

	h := &handle{conn: conn, db: db}
	if err := setupSession(ctx, h, initCommands, cfg.Charset); err != nil {
		_ = h.close()
		c.inst.logger.Error("failed to set up MySQL session", err, fields)
		return newConnectionError(err)
	}

	c.h = h
	c.inst.logger.Info("connected to MySQL", nil, fields)
	return nil
}

func setupSession(ctx context.Context, s Session, initCommands []string, charset string) error {
	for _, stmt := range initCommands {
		if _, err := s.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if charset != "" {
		// charset is restricted to [A-Za-z0-9_] by ResolveConfig.
		if _, err := s.ExecContext(ctx, "SET NAMES "+charset); err != nil {
			return err
		}
	}
	return nil
}

// IsConnected reports whether a session exists and answers a ping within the
// probe timeout.
//
// A failed probe is not side-effect free: it disconnects, so the next
// operation that needs a session reconnects.
func (c *Connection) IsConnected(ctx context.Context) bool {
	if c.h == nil {
		return false
	}

	start := time.Now()
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	err := c.h.PingContext(probeCtx)
	c.inst.observeOperation("probe", "", start, err, 0)
	if err != nil {
		c.inst.logger.Warn("MySQL session failed liveness probe, discarding it", err)
		_ = c.Disconnect()
		return false
	}

	return true
}

// Disconnect closes the session. It is a no-op without one, and the session
// is released even when closing reports an error.
func (c *Connection) Disconnect() error {
	if c.h == nil {
		return nil
	}

	start := time.Now()
	h := c.h
	c.h = nil

	err := h.close()
	c.inst.observeOperation("disconnect", "", start, err, 0)
	if err != nil {
		c.inst.logger.Warn("error while closing MySQL session", err)
		return err
	}

	c.inst.logger.Info("disconnected from MySQL", nil)
	return nil
}

// Session returns the current session, connecting first if there is none.
// It does not probe an existing session.
func (c *Connection) Session(ctx context.Context) (Session, error) {
	if c.h == nil {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c.h, nil
}

func (c *Connection) liveSession(ctx context.Context) (Session, error) {
	if !c.IsConnected(ctx) {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c.h, nil
}

func (c *Connection) currentSession() Session {
	if c.h == nil {
		return nil
	}
	return c.h
}

// CurrentSchema returns the default database of the session, or "" when
// none is selected. It reconnects if the session is gone.
func (c *Connection) CurrentSchema(ctx context.Context) (string, error) {
	s, err := c.liveSession(ctx)
	if err != nil {
		return "", err
	}

	var schema sql.NullString
	if err := s.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&schema); err != nil {
		return "", newInvalidQueryError(err)
	}
	return schema.String, nil
}
