package mysqlconn

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

// FXModule is an fx module that provides the MySQL client component.
// It registers the Client constructor for dependency injection and
// sets up lifecycle hooks that connect on start (when configured) and
// disconnect on stop.
var FXModule = fx.Module("mysqlconn",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterClientLifecycle),
)

// ClientParams groups the dependencies needed to create a Client via
// dependency injection. Logger and Observer are optional; without them
// the client logs nothing and reports no operations.
type ClientParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Client using dependency injection.
//
// Parameters:
//   - params: a ClientParams struct with the Config and the optional
//     Logger and Observer.
//
// Returns:
//   - *Client: the client, not yet connected.
//   - error: an *InvalidArgumentError if the configuration is unusable.
//
// Example usage with fx:
//
//	app := fx.New(
//	    logger.FXModule,
//	    mysqlconn.FXModule,
//	    fx.Provide(
//	        func() mysqlconn.Config {
//	            return loadMySQLConfig() // Your config loading function
//	        },
//	        func(l *logger.Logger) mysqlconn.Logger { return l },
//	    ),
//	)
func NewClientWithDI(params ClientParams) (*Client, error) {
	client, err := NewClientFromConfig(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	return client, nil
}

// ClientLifecycleParams groups the dependencies needed for Client lifecycle management.
type ClientLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Client    *Client
}

// RegisterClientLifecycle registers lifecycle hooks for the Client:
//  1. On start, connect if Config.ConnectOnStart is set; otherwise the first
//     operation connects.
//  2. On stop, disconnect.
func RegisterClientLifecycle(params ClientLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !params.Config.ConnectOnStart {
				return nil
			}
			return params.Client.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return params.Client.Disconnect()
		},
	})
}
