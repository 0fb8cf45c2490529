package mysqlconn

import (
	"fmt"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// Accepted keys per logical field, highest priority first.
var (
	hostnameKeys = []string{"hostname", "host"}
	usernameKeys = []string{"username", "user"}
	passwordKeys = []string{"password", "passwd", "pw"}
	databaseKeys = []string{"database", "dbname", "db", "schema"}
)

const (
	portKey          = "port"
	socketKey        = "socket"
	charsetKey       = "charset"
	driverOptionsKey = "driver_options"
)

var charsetPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// FindParameterValue returns the value of the first name present in p.
// A key mapped to nil counts as absent. The boolean is false when none of
// the names is present.
func FindParameterValue(p Parameters, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := p[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ResolveConfig builds a ConnectionConfig from raw parameters.
//
// hostname, username, password and database each accept a list of aliases and
// the first one present wins. port, socket, charset and driver_options use a
// single key. Values are weakly decoded, so a port may be given as 3306, 3306.0
// or "3306". A value that cannot be decoded into its field's type fails with an
// *InvalidArgumentError, as does a charset that is not a plain identifier.
func ResolveConfig(p Parameters) (ConnectionConfig, error) {
	var cfg ConnectionConfig

	fields := []struct {
		dst   any
		names []string
	}{
		{&cfg.Hostname, hostnameKeys},
		{&cfg.Username, usernameKeys},
		{&cfg.Password, passwordKeys},
		{&cfg.Database, databaseKeys},
		{&cfg.Port, []string{portKey}},
		{&cfg.Socket, []string{socketKey}},
		{&cfg.Charset, []string{charsetKey}},
	}
	for _, f := range fields {
		v, ok := FindParameterValue(p, f.names...)
		if !ok {
			continue
		}
		if err := mapstructure.WeakDecode(v, f.dst); err != nil {
			return ConnectionConfig{}, &InvalidArgumentError{Param: f.names[0], Err: err}
		}
	}

	if v, ok := FindParameterValue(p, driverOptionsKey); ok {
		opts := make(map[string]any)
		if err := mapstructure.WeakDecode(v, &opts); err != nil {
			return ConnectionConfig{}, &InvalidArgumentError{Param: driverOptionsKey, Err: err}
		}
		cfg.DriverOptions = opts
	}

	if cfg.Charset != "" && !charsetPattern.MatchString(cfg.Charset) {
		return ConnectionConfig{}, &InvalidArgumentError{
			Param: charsetKey,
			Err:   fmt.Errorf("%q is not a valid character set name", cfg.Charset),
		}
	}

	return cfg, nil
}
