package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around Uber's Zap logger.
type Logger struct {
	// Zap is exposed for callers that need zap-specific functionality.
	Zap *zap.Logger

	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger writing to stderr.
//
// Entries carry an ISO8601 "timestamp", a capitalised level, the caller and the
// process id and service name as initial fields. If the zap configuration cannot
// be built the process exits through log.Fatal.
func NewLoggerClient(cfg Config) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	zl, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}

	return &Logger{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}
}

// NewWithZap wraps an existing zap logger. The caller skip used by the wrapper
// methods is added here, so pass the logger as built.
func NewWithZap(zl *zap.Logger, enableTracing bool) *Logger {
	return &Logger{
		Zap:            zl.WithOptions(zap.AddCallerSkip(1)),
		tracingEnabled: enableTracing,
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Zap: zap.NewNop()}
}

// ParseLevel maps a Config level string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning, "warn":
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.Zap.Sync()
}
