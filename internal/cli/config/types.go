// Package config loads sqlconn CLI configuration from defaults, a YAML file,
// SQLCONN_* environment variables and command-line flags.
package config

import (
	"time"

	"github.com/Aleph-Alpha/sqlconn/v1/logger"
	"github.com/Aleph-Alpha/sqlconn/v1/metrics"
	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
	"github.com/Aleph-Alpha/sqlconn/v1/tracer"
)

// Defaults.
const (
	DefaultConfigFile  = "sqlconn.yaml"
	DefaultFormat      = "table"
	DefaultLogLevel    = logger.Warning
	DefaultServiceName = "sqlconn"
	EnvPrefix          = "SQLCONN_"
)

// Formats accepted by --format.
var Formats = []string{"table", "json", "yaml", "csv"}

// Config is the merged CLI configuration.
type Config struct {
	// Connection is handed to mysqlconn untouched, so every parameter alias
	// (host/hostname, db/schema, ...) works from any source.
	Connection map[string]any `koanf:"connection"`

	ProbeTimeout time.Duration `koanf:"probe_timeout"`
	Format       string        `koanf:"format"`

	Log     logger.Config  `koanf:"log"`
	Trace   tracer.Config  `koanf:"trace"`
	Metrics metrics.Config `koanf:"metrics"`
}

// ClientConfig returns the mysqlconn configuration for c.
func (c *Config) ClientConfig() mysqlconn.Config {
	return mysqlconn.Config{
		Parameters:   mysqlconn.Parameters(c.Connection),
		ProbeTimeout: c.ProbeTimeout,
	}
}
