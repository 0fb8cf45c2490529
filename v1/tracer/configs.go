package tracer

// Config configures the tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" koanf:"service_name"`

	// AppEnv is recorded as the deployment environment.
	AppEnv string `yaml:"app_env" koanf:"app_env"`

	// EnableExport sends finished spans to an OTLP/HTTP collector. Without
	// it spans are created and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" koanf:"enable_export"`

	// Endpoint is the collector URL, e.g. "http://localhost:4318". Empty
	// falls back to the standard OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
}
