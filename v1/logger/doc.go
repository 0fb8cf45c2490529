// Package logger provides the structured logger used across sqlconn.
//
// It wraps go.uber.org/zap behind a small method set that every sqlconn
// package accepts through its own Logger interface:
//
//	Debug/Info/Warn/Error/Fatal(msg string, err error, fields ...map[string]interface{})
//
// plus *WithContext variants that attach the OpenTelemetry trace and span IDs
// found in the context when tracing is enabled.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "orders-api",
//	})
//	defer log.Sync()
//
//	log.Info("connected", nil, map[string]interface{}{"host": "db1"})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config { return logger.Config{Level: logger.Debug} }),
//	)
//
// The module flushes buffered entries when the application stops.
//
// # Configuration
//
//	SQLCONN_LOG_LEVEL=debug        # debug, info, warning, error
//	SQLCONN_LOG_TRACING=true       # attach trace_id/span_id in *WithContext calls
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package logger
