package mysqlconn

import "time"

// DefaultProbeTimeout bounds the liveness probe run by IsConnected.
const DefaultProbeTimeout = 5 * time.Second

// Parameters is the raw connection mapping supplied at construction time.
// Several aliases are accepted per logical field; see ResolveConfig.
type Parameters map[string]any

// ConnectionConfig is the normalised, alias-resolved form of Parameters.
// It is a value: once ResolveConfig returns it, nothing mutates it.
type ConnectionConfig struct {
	Hostname string
	Username string
	Password string
	Database string

	// Port is 0 when not configured; the driver default (3306) applies.
	Port int

	// Socket is a unix socket path. It is used instead of TCP when the
	// hostname is empty or "localhost".
	Socket string

	// Charset is applied with SET NAMES after the handshake.
	Charset string

	// DriverOptions maps option names (case-insensitive) to values.
	// Unrecognised names are skipped.
	DriverOptions map[string]any
}

// Config is the package configuration consumed by NewClientFromConfig and FXModule.
type Config struct {
	// Parameters is handed to the client unchanged, aliases included.
	Parameters Parameters `yaml:"parameters" koanf:"parameters"`

	// ProbeTimeout bounds each liveness probe. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration `yaml:"probe_timeout" koanf:"probe_timeout"`

	// ConnectOnStart makes the fx lifecycle connect eagerly instead of on first use.
	ConnectOnStart bool `yaml:"connect_on_start" koanf:"connect_on_start"`
}
