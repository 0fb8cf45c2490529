package mysqlconn

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/go-viper/mapstructure/v2"
)

const (
	defaultHost = "localhost"
	defaultPort = 3306

	initCommandOption = "INIT_COMMAND"
)

// optionSetter applies one driver option value to the driver configuration.
type optionSetter func(cfg *mysql.Config, value any) error

// Option names are matched after upper-casing and stripping a mysqli-style
// prefix, so "connect_timeout", "CONNECT_TIMEOUT" and
// "MYSQLI_OPT_CONNECT_TIMEOUT" all select the same setter.
var optionPrefixes = []string{"MYSQLI_OPT_", "MYSQL_OPT_", "MYSQLI_", "MYSQL_"}

var driverOptions = map[string]optionSetter{
	"CONNECT_TIMEOUT": durationOption(func(c *mysql.Config, d time.Duration) { c.Timeout = d }),
	"READ_TIMEOUT":    durationOption(func(c *mysql.Config, d time.Duration) { c.ReadTimeout = d }),
	"WRITE_TIMEOUT":   durationOption(func(c *mysql.Config, d time.Duration) { c.WriteTimeout = d }),

	"LOCAL_INFILE":              boolOption(func(c *mysql.Config, b bool) { c.AllowAllFiles = b }),
	"MULTI_STATEMENTS":          boolOption(func(c *mysql.Config, b bool) { c.MultiStatements = b }),
	"INTERPOLATE_PARAMS":        boolOption(func(c *mysql.Config, b bool) { c.InterpolateParams = b }),
	"PARSE_TIME":                boolOption(func(c *mysql.Config, b bool) { c.ParseTime = b }),
	"CLIENT_FOUND_ROWS":         boolOption(func(c *mysql.Config, b bool) { c.ClientFoundRows = b }),
	"ALLOW_NATIVE_PASSWORDS":    boolOption(func(c *mysql.Config, b bool) { c.AllowNativePasswords = b }),
	"ALLOW_CLEARTEXT_PASSWORDS": boolOption(func(c *mysql.Config, b bool) { c.AllowCleartextPasswords = b }),
	"REJECT_READ_ONLY":          boolOption(func(c *mysql.Config, b bool) { c.RejectReadOnly = b }),

	"MAX_ALLOWED_PACKET": func(c *mysql.Config, v any) error {
		return mapstructure.WeakDecode(v, &c.MaxAllowedPacket)
	},
	"COLLATION":             stringOption(func(c *mysql.Config, s string) { c.Collation = s }),
	"TLS":                   stringOption(func(c *mysql.Config, s string) { c.TLSConfig = s }),
	"SERVER_PUBLIC_KEY":     stringOption(func(c *mysql.Config, s string) { c.ServerPubKey = s }),
	"CONNECTION_ATTRIBUTES": stringOption(func(c *mysql.Config, s string) { c.ConnectionAttributes = s }),
	"LOC": func(c *mysql.Config, v any) error {
		var name string
		if err := mapstructure.WeakDecode(v, &name); err != nil {
			return err
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return err
		}
		c.Loc = loc
		return nil
	},
}

func durationOption(set func(*mysql.Config, time.Duration)) optionSetter {
	return func(c *mysql.Config, v any) error {
		d, err := toDuration(v)
		if err != nil {
			return err
		}
		set(c, d)
		return nil
	}
}

func boolOption(set func(*mysql.Config, bool)) optionSetter {
	return func(c *mysql.Config, v any) error {
		var b bool
		if err := mapstructure.WeakDecode(v, &b); err != nil {
			return err
		}
		set(c, b)
		return nil
	}
}

func stringOption(set func(*mysql.Config, string)) optionSetter {
	return func(c *mysql.Config, v any) error {
		var s string
		if err := mapstructure.WeakDecode(v, &s); err != nil {
			return err
		}
		set(c, s)
		return nil
	}
}

// toDuration accepts Go duration strings ("1.5s") or a number of seconds.
func toDuration(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
	}
	var secs float64
	if err := mapstructure.WeakDecode(v, &secs); err != nil {
		return 0, fmt.Errorf("not a duration: %v", v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// normalizeOptionName upper-cases name and strips any mysqli-style prefix.
func normalizeOptionName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, prefix := range optionPrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// buildDriverConfig translates a resolved config into the driver's configuration
// and returns the init commands to run once the session is open.
//
// Unknown option names are skipped. Known options whose value cannot be used
// are skipped too, with a warning, so a bad option never blocks the connection.
func buildDriverConfig(cfg ConnectionConfig, log Logger) (*mysql.Config, []string) {
	dc := mysql.NewConfig()
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.DBName = cfg.Database

	if cfg.Socket != "" && (cfg.Hostname == "" || cfg.Hostname == defaultHost) {
		dc.Net = "unix"
		dc.Addr = cfg.Socket
	} else {
		host, port := cfg.Hostname, cfg.Port
		if host == "" {
			host = defaultHost
		}
		if port == 0 {
			port = defaultPort
		}
		dc.Net = "tcp"
		dc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	names := make([]string, 0, len(cfg.DriverOptions))
	for name := range cfg.DriverOptions {
		names = append(names, name)
	}
	sort.Strings(names)

	var initCommands []string
	for _, name := range names {
		value := cfg.DriverOptions[name]
		option := normalizeOptionName(name)

		if option == initCommandOption {
			var stmt string
			if err := mapstructure.WeakDecode(value, &stmt); err != nil || stmt == "" {
				log.Warn("ignoring unusable driver option value", err, map[string]interface{}{"option": name})
				continue
			}
			initCommands = append(initCommands, stmt)
			continue
		}

		set, ok := driverOptions[option]
		if !ok {
			log.Debug("skipping unrecognised driver option", nil, map[string]interface{}{"option": name})
			continue
		}
		if err := set(dc, value); err != nil {
			log.Warn("ignoring unusable driver option value", err, map[string]interface{}{"option": name})
		}
	}

	return dc, initCommands
}
