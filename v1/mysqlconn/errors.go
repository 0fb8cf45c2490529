package mysqlconn

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Error kinds. Every typed error below matches exactly one of these with errors.Is.
var (
	// ErrInvalidArgument is matched by *InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConnection is matched by *ConnectionError.
	ErrConnection = errors.New("connection error")

	// ErrInvalidQuery is matched by *InvalidQueryError.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrState is matched by *StateError.
	ErrState = errors.New("invalid state")
)

// Causes carried by *StateError.
var (
	// ErrNotConnected means the operation needs a session and none exists.
	ErrNotConnected = errors.New("must be connected first")

	// ErrNoActiveTransaction means rollback was called outside a transaction.
	ErrNoActiveTransaction = errors.New("must be inside an active transaction")
)

// Translated server errors, see TranslateError.
var (
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrForeignKey   = errors.New("foreign key violation")
	ErrDeadlock     = errors.New("deadlock detected")
	ErrLockTimeout  = errors.New("lock wait timeout exceeded")
	ErrServerGone   = errors.New("server has gone away")
)

// InvalidArgumentError reports unusable construction input or parameters.
type InvalidArgumentError struct {
	Param string
	Err   error
}

func (e *InvalidArgumentError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%v: %v", ErrInvalidArgument, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrInvalidArgument, e.Param, e.Err)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }
func (e *InvalidArgumentError) Unwrap() error        { return e.Err }

// ConnectionError reports a failed handshake or session setup. Code and Message
// come from the server when the cause is a *mysql.MySQLError.
type ConnectionError struct {
	Code    int
	Message string
	Err     error
}

func newConnectionError(err error) *ConnectionError {
	code, msg := serverError(err)
	return &ConnectionError{Code: code, Message: msg, Err: err}
}

func (e *ConnectionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%v: [%d] %s", ErrConnection, e.Code, e.Message)
	}
	return fmt.Sprintf("%v: %s", ErrConnection, e.Message)
}

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }
func (e *ConnectionError) Unwrap() error        { return e.Err }

// InvalidQueryError reports SQL text the server rejected. Message is the
// server's own error text.
type InvalidQueryError struct {
	Code    int
	Message string
	Err     error
}

func newInvalidQueryError(err error) *InvalidQueryError {
	code, msg := serverError(err)
	return &InvalidQueryError{Code: code, Message: msg, Err: err}
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidQuery, e.Message)
}

func (e *InvalidQueryError) Is(target error) bool { return target == ErrInvalidQuery }
func (e *InvalidQueryError) Unwrap() error        { return e.Err }

// StateError reports an operation invoked out of sequence.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StateError) Is(target error) bool { return target == ErrState }
func (e *StateError) Unwrap() error        { return e.Err }

// serverError extracts the server error number and text, falling back to the
// error string when err did not come from the server.
func serverError(err error) (int, string) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return int(me.Number), me.Message
	}
	return 0, err.Error()
}

// asQueryError keeps errors that already carry one of the error kinds and
// wraps everything else in an *InvalidQueryError.
func asQueryError(err error) error {
	for _, kind := range []error{ErrInvalidQuery, ErrConnection, ErrState, ErrInvalidArgument} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return newInvalidQueryError(err)
}

// IsConnectionError reports whether err is a *ConnectionError.
func IsConnectionError(err error) bool { return errors.Is(err, ErrConnection) }

// IsInvalidQuery reports whether err is an *InvalidQueryError.
func IsInvalidQuery(err error) bool { return errors.Is(err, ErrInvalidQuery) }

// IsStateError reports whether err is a *StateError.
func IsStateError(err error) bool { return errors.Is(err, ErrState) }

// TranslateError maps well-known MySQL/MariaDB server errors onto the sentinels
// above so callers can branch without knowing error numbers. Constraint
// violations go through GORM's MySQL dialector first, so the result also
// matches gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated. Errors it does
// not recognise are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %w", ErrServerGone, err)
	}

	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}

	switch gormErr := (gormmysql.Dialector{}).Translate(me); {
	case errors.Is(gormErr, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w (%w): %w", ErrDuplicateKey, gormErr, err)
	case errors.Is(gormErr, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w (%w): %w", ErrForeignKey, gormErr, err)
	}

	switch me.Number {
	case 1213:
		return fmt.Errorf("%w: %w", ErrDeadlock, err)
	case 1205:
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	case 2006, 2013:
		return fmt.Errorf("%w: %w", ErrServerGone, err)
	}
	return err
}

// IsRetryable reports whether re-running the whole transaction may succeed.
func IsRetryable(err error) bool {
	err = TranslateError(err)
	return errors.Is(err, ErrDeadlock) || errors.Is(err, ErrLockTimeout)
}

// IsTemporary reports whether the condition is expected to clear on its own.
func IsTemporary(err error) bool {
	err = TranslateError(err)
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrServerGone)
}
