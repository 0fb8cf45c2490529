package mysqlconn

import (
	"context"
	"fmt"
	"time"
)

// TransactionState tracks whether a transaction was begun on the session.
type TransactionState int

const (
	TransactionIdle TransactionState = iota
	TransactionActive
)

func (s TransactionState) String() string {
	switch s {
	case TransactionIdle:
		return "idle"
	case TransactionActive:
		return "active"
	default:
		return fmt.Sprintf("TransactionState(%d)", int(s))
	}
}

// Transactions runs transaction control statements on the connection's
// session. Transactions are implemented by toggling autocommit, so there is
// no nesting: beginning again while active only reissues the statement.
type Transactions struct {
	sessions sessionSource
	state    TransactionState
	inst     *instruments
}

// State returns the current transaction state.
func (t *Transactions) State() TransactionState { return t.state }

// InTransaction reports whether a transaction is active.
func (t *Transactions) InTransaction() bool { return t.state == TransactionActive }

// BeginTransaction disables autocommit, reconnecting first if the session is gone.
func (t *Transactions) BeginTransaction(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { t.inst.observeOperation("begin", "", start, err, 0) }()

	s, err := t.sessions.liveSession(ctx)
	if err != nil {
		return err
	}
	if _, err = s.ExecContext(ctx, "SET autocommit = 0"); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	t.state = TransactionActive
	t.inst.logger.Debug("transaction started", nil)
	return nil
}

// Commit commits the current unit of work. Calling it with no active
// transaction is allowed and leaves autocommit untouched.
func (t *Transactions) Commit(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { t.inst.observeOperation("commit", "", start, err, 0) }()

	s, err := t.sessions.Session(ctx)
	if err != nil {
		return err
	}
	if _, err = s.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	if t.state == TransactionActive {
		if _, err = s.ExecContext(ctx, "SET autocommit = 1"); err != nil {
			return fmt.Errorf("failed to restore autocommit: %w", err)
		}
	}

	t.state = TransactionIdle
	t.inst.logger.Debug("transaction committed", nil)
	return nil
}

// Rollback discards the active transaction and restores autocommit.
// It fails with a *StateError when there is no session or no active
// transaction.
func (t *Transactions) Rollback(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { t.inst.observeOperation("rollback", "", start, err, 0) }()

	s := t.sessions.currentSession()
	if s == nil {
		return &StateError{Op: "rollback", Err: ErrNotConnected}
	}
	if t.state != TransactionActive {
		return &StateError{Op: "rollback", Err: ErrNoActiveTransaction}
	}

	if _, err = s.ExecContext(ctx, "ROLLBACK"); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	if _, err = s.ExecContext(ctx, "SET autocommit = 1"); err != nil {
		return fmt.Errorf("failed to restore autocommit: %w", err)
	}

	t.state = TransactionIdle
	t.inst.logger.Debug("transaction rolled back", nil)
	return nil
}
