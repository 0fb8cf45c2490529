// Package mysqlconn manages a single connection to a MySQL or MariaDB server.
//
// A Client owns at most one server session. It resolves loosely keyed
// connection parameters, connects lazily on first use, probes the session
// before work and transparently reconnects when the probe fails, tracks
// autocommit-based transactions and dispatches SQL text, translating server
// failures into typed errors.
//
// Basic usage:
//
//	client, err := mysqlconn.NewClient(mysqlconn.Parameters{
//	    "hostname": "db1",
//	    "username": "app",
//	    "password": "secret",
//	    "dbname":   "orders",
//	    "charset":  "utf8mb4",
//	    "driver_options": map[string]any{
//	        "MYSQLI_OPT_CONNECT_TIMEOUT": 5,
//	        "MYSQLI_INIT_COMMAND":        "SET time_zone = '+00:00'",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	if err := client.BeginTransaction(ctx); err != nil {
//	    return err
//	}
//	res, err := client.Execute(ctx, "INSERT INTO orders (sku) VALUES ('a-1')")
//	if err != nil {
//	    _ = client.Rollback(ctx)
//	    return err
//	}
//	id := res.GeneratedValue()
//	if err := client.Commit(ctx); err != nil {
//	    return err
//	}
//
// Parameter aliases:
//
//	hostname  hostname, host
//	username  username, user
//	password  password, passwd, pw
//	database  database, dbname, db, schema
//
// plus port, socket, charset and driver_options. Driver option names are
// case-insensitive and may carry a MYSQLI_OPT_, MYSQLI_ or MYSQL_OPT_ prefix.
// Unknown options are skipped.
//
// Errors:
//
// Failures are reported as *InvalidArgumentError, *ConnectionError,
// *InvalidQueryError or *StateError, each matching its sentinel
// (ErrInvalidArgument, ErrConnection, ErrInvalidQuery, ErrState) with
// errors.Is. TranslateError maps well-known server error numbers to
// ErrDuplicateKey, ErrForeignKey, ErrDeadlock, ErrLockTimeout and
// ErrServerGone.
//
// Observability:
//
// WithLogger, WithObserver and WithTracerProvider attach a logger, an
// observability.Observer and an OpenTelemetry tracer provider. Connect and
// Execute produce spans named mysqlconn.Connect and mysqlconn.Execute.
package mysqlconn
