package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("host", "", "")
	fs.String("user", "", "")
	fs.String("password", "", "")
	fs.String("database", "", "")
	fs.Int("port", 0, "")
	fs.String("socket", "", "")
	fs.String("charset", "", "")
	fs.StringArray(OptionFlag, nil, "")
	fs.Duration("probe-timeout", 0, "")
	fs.String("format", "", "")
	fs.String("log-level", "", "")
	fs.Bool("trace", false, "")
	fs.String("trace-endpoint", "", "")
	fs.String("metrics-address", "", "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlconn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultServiceName, cfg.Log.ServiceName)
	assert.Equal(t, DefaultServiceName, cfg.Trace.ServiceName)
	assert.False(t, cfg.Trace.EnableExport)
	assert.Empty(t, cfg.Connection)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
connection:
  host: file-host
  db: orders
  port: 3306
  driver_options:
    MYSQLI_OPT_CONNECT_TIMEOUT: 3
format: json
log:
  level: info
`)
	t.Setenv("SQLCONN_CONNECTION__HOST", "env-host")
	t.Setenv("SQLCONN_CONNECTION__USER", "env-user")
	t.Setenv("SQLCONN_FORMAT", "yaml")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--host", "flag-host",
		"--port", "3307",
		"--option", "MYSQLI_INIT_COMMAND=SET time_zone = '+00:00'",
		"--option", "read_timeout=2s",
		"--log-level", "debug",
	}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Connection["host"], "flags beat env and file")
	assert.Equal(t, "env-user", cfg.Connection["user"], "env beats file")
	assert.Equal(t, "orders", cfg.Connection["db"], "aliases pass through untouched")
	assert.EqualValues(t, 3307, cfg.Connection["port"])
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts, ok := cfg.Connection["driver_options"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, opts["MYSQLI_OPT_CONNECT_TIMEOUT"], "file options merge with flag options")
	assert.Equal(t, "SET time_zone = '+00:00'", opts["MYSQLI_INIT_COMMAND"])
	assert.Equal(t, "2s", opts["read_timeout"])
}

func TestLoadResolvesThroughClientConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLCONN_CONNECTION__SCHEMA", "reports")
	t.Setenv("SQLCONN_CONNECTION__PORT", "3310")
	t.Setenv("SQLCONN_PROBE_TIMEOUT", "750ms")

	cfg, err := Load("", newFlagSet())
	require.NoError(t, err)

	cc := cfg.ClientConfig()
	assert.Equal(t, 750*time.Millisecond, cc.ProbeTimeout)
	assert.Equal(t, "reports", cc.Parameters["schema"])
	assert.Equal(t, "3310", cc.Parameters["port"])
}

func TestLoadUsesDefaultConfigFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("format: csv\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--format", "xml"}))
	_, err = Load("", fs)
	assert.ErrorContains(t, err, "invalid format")

	fs = newFlagSet()
	require.NoError(t, fs.Parse([]string{"--option", "novalue"}))
	_, err = Load("", fs)
	assert.ErrorContains(t, err, "expected NAME=VALUE")
}
