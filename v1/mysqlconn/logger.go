package mysqlconn

// Logger is the logging contract used by this package. *logger.Logger from
// the std logger package satisfies it.
//
//go:generate mockgen -source=logger.go -destination=mock_logger_test.go -package=mysqlconn
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
