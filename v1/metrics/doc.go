// Package metrics provides Prometheus-based operation metrics and a /metrics
// HTTP endpoint.
//
// *Metrics implements observability.Observer. Attach it to any component that
// reports operations and every operation is counted by outcome, timed, and,
// when it has a size, sized:
//
//	operations_total{component, operation, status}
//	operation_duration_seconds{component, operation}
//	operation_size{component, operation}
//
// All metrics carry a constant service label and the optional namespace prefix.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "orders-api",
//	})
//	go m.Server.ListenAndServe()
//
//	client, _ := mysqlconn.NewClient(params)
//	client.WithObserver(m)
//
// # FX Module Integration
//
// FXModule provides *Metrics and also exposes it as observability.Observer, so
// mysqlconn.FXModule picks it up as its optional observer:
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		mysqlconn.FXModule,
//		fx.Provide(func() metrics.Config {
//			return metrics.Config{Address: ":9090", ServiceName: "orders-api"}
//		}),
//	)
//	app.Run()
//
// # Configuration
//
// Config carries yaml and koanf tags. The sqlconn CLI reads it from the
// "metrics" section of its config file or from the environment:
//
//	SQLCONN_METRICS__ADDRESS=:9090
//	SQLCONN_METRICS__ENABLE_DEFAULT_COLLECTORS=true
//	SQLCONN_METRICS__NAMESPACE=sqlconn
//
// # Custom Metrics
//
// Applications can register additional collectors on the exposed Registry.
//
// # Thread Safety
//
// All methods on the Metrics struct are safe for concurrent use.
package metrics
