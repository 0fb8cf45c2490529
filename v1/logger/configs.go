package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config configures NewLoggerClient.
type Config struct {
	// Level is one of Debug, Info, Warning or Error. Unknown values mean Info.
	Level string `yaml:"level" koanf:"level"`

	// ServiceName is added to every entry as the "service" field.
	ServiceName string `yaml:"service_name" koanf:"service_name"`

	// EnableTracing makes the *WithContext methods add trace_id and span_id.
	EnableTracing bool `yaml:"enable_tracing" koanf:"enable_tracing"`
}
