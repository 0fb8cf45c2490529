package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
)

// OptionFlag is the repeatable NAME=VALUE driver option flag.
const OptionFlag = "option"

// flagKeys maps flag names to config keys. Flags not listed are not
// configuration (e.g. --config) or are handled separately.
var flagKeys = map[string]string{
	"host":            "connection.host",
	"user":            "connection.user",
	"password":        "connection.password",
	"database":        "connection.database",
	"port":            "connection.port",
	"socket":          "connection.socket",
	"charset":         "connection.charset",
	"probe-timeout":   "probe_timeout",
	"format":          "format",
	"log-level":       "log.level",
	"trace":           "trace.enable_export",
	"trace-endpoint":  "trace.endpoint",
	"metrics-address": "metrics.address",
}

// Load merges configuration sources.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
//
// cfgFile may be empty, in which case ./sqlconn.yaml is used if present.
// Environment variables use the SQLCONN_ prefix and "__" for nesting, e.g.
// SQLCONN_CONNECTION__HOST=db1 or SQLCONN_LOG__LEVEL=debug.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":               DefaultFormat,
		"probe_timeout":        mysqlconn.DefaultProbeTimeout.String(),
		"log.level":            DefaultLogLevel,
		"log.service_name":     DefaultServiceName,
		"trace.service_name":   DefaultServiceName,
		"metrics.service_name": DefaultServiceName,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: SQLCONN_CONNECTION__HOST -> connection.host
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}

		options, err := driverOptions(flags)
		if err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := k.Load(confmap.Provider(options, ""), nil); err != nil {
				return nil, fmt.Errorf("failed to load driver options: %w", err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// driverOptions turns repeated --option NAME=VALUE flags into a nested map
// under connection.driver_options.
func driverOptions(flags *pflag.FlagSet) (map[string]interface{}, error) {
	if flags.Lookup(OptionFlag) == nil {
		return nil, nil
	}
	pairs, err := flags.GetStringArray(OptionFlag)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	opts := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected NAME=VALUE", OptionFlag, pair)
		}
		opts[name] = value
	}

	return map[string]interface{}{
		"connection": map[string]interface{}{
			"driver_options": opts,
		},
	}, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("invalid probe timeout %s", c.ProbeTimeout)
	}
	return nil
}
