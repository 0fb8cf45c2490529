package mysqlconn

import (
	"context"
	"database/sql"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ServerVersion returns the version string the server reports, as read by
// GORM's MySQL dialector over the pinned session. The value is cached until
// the session is replaced. It reconnects if the session is gone.
func (c *Connection) ServerVersion(ctx context.Context) (string, error) {
	if _, err := c.liveSession(ctx); err != nil {
		return "", err
	}
	if c.h.version != "" {
		return c.h.version, nil
	}

	dialector := &gormmysql.Dialector{Config: &gormmysql.Config{Conn: boundSession{Session: c.h, ctx: ctx}}}
	_, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return "", newInvalidQueryError(err)
	}

	c.h.version = dialector.ServerVersion
	return c.h.version, nil
}

// boundSession runs the dialector's queries under the caller's context, since
// GORM issues its version query with context.Background().
type boundSession struct {
	Session
	ctx context.Context
}

func (b boundSession) QueryRowContext(_ context.Context, query string, args ...any) *sql.Row {
	return b.Session.QueryRowContext(b.ctx, query, args...)
}
