package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger from a Config and flushes it on shutdown.
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes buffered log entries when the application stops.
// Sync on stderr returns EINVAL/ENOTTY on some platforms, which is not worth
// failing shutdown over, so the error is dropped.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = client.Sync()
			return nil
		},
	})
}
