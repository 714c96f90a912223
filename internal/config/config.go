// Package config resolves node and shell settings: defaults, then a YAML file, then the
// environment, then command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultEndpoint = "http://127.0.0.1:8545"
	DefaultStorage  = "memory://"

	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

const (
	flagEndpoint    = "endpoint"
	flagStorage     = "storage"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagTTUser      = "tarantool-user"
	flagTTPassword  = "tarantool-password"
	flagTTTimeout   = "tarantool-timeout"
	flagTTReconnect = "tarantool-reconnect"
	flagTTRetries   = "tarantool-max-reconnects"
)

var (
	ErrEndpoint  = errors.New("endpoint must be an http(s) url with a host")
	ErrLogFormat = errors.New("log format must be terminal or json")
)

type Tarantool struct {
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Timeout       time.Duration `yaml:"timeout"`
	Reconnect     time.Duration `yaml:"reconnect"`
	MaxReconnects uint          `yaml:"max-reconnects"`
}

type Config struct {
	Endpoint  string    `yaml:"endpoint"`
	Storage   string    `yaml:"storage"`
	LogLevel  string    `yaml:"log-level"`
	LogFormat string    `yaml:"log-format"`
	Tarantool Tarantool `yaml:"tarantool"`
}

func Default() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		Storage:   DefaultStorage,
		LogLevel:  logging.LvlInfo.String(),
		LogFormat: FormatTerminal,
		Tarantool: Tarantool{
			Timeout:       time.Second,
			Reconnect:     3 * time.Second,
			MaxReconnects: 5,
		},
	}
}

// LoadFile overlays the YAML document at path. Keys missing from the file keep their value.
func (c *Config) LoadFile(path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}
	if err = yaml.UnmarshalStrict(b, c); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays the non-empty variables among DAPPVOTES_* and TT_*.
func (c *Config) LoadEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Endpoint, "DAPPVOTES_ENDPOINT")
	set(&c.Storage, "DAPPVOTES_STORAGE")
	set(&c.LogLevel, "DAPPVOTES_LOG_LEVEL")
	set(&c.LogFormat, "DAPPVOTES_LOG_FORMAT")
	set(&c.Tarantool.User, "TT_USER")
	set(&c.Tarantool.Password, "TT_PASSWORD")

	if v := getenv("TT_ADDRESS"); v != "" {
		c.Storage = "tarantool://" + v
	}
	if v := getenv("TT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TT_TIMEOUT: %w", err)
		}
		c.Tarantool.Timeout = d
	}
	if v := getenv("TT_MAX_RECONNECTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("TT_MAX_RECONNECTS: %w", err)
		}
		c.Tarantool.MaxReconnects = uint(n)
	}
	return nil
}

// BindFlags registers the flags on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Endpoint, flagEndpoint, c.Endpoint, "json-rpc endpoint")
	fs.StringVar(&c.Storage, flagStorage, c.Storage, "ledger storage: memory://, leveldb://memory, file:///path, tarantool://host:port")
	fs.StringVar(&c.LogLevel, flagLogLevel, c.LogLevel, "log level: crit, error, warn, info, debug")
	fs.StringVar(&c.LogFormat, flagLogFormat, c.LogFormat, "log format: terminal, json")
	fs.StringVar(&c.Tarantool.User, flagTTUser, c.Tarantool.User, "tarantool user")
	fs.StringVar(&c.Tarantool.Password, flagTTPassword, c.Tarantool.Password, "tarantool password")
	fs.DurationVar(&c.Tarantool.Timeout, flagTTTimeout, c.Tarantool.Timeout, "tarantool request timeout")
	fs.DurationVar(&c.Tarantool.Reconnect, flagTTReconnect, c.Tarantool.Reconnect, "tarantool reconnect interval")
	fs.UintVar(&c.Tarantool.MaxReconnects, flagTTRetries, c.Tarantool.MaxReconnects, "tarantool reconnect attempts")
}

// Override copies into c the values of flags that were set on the command line.
func (c *Config) Override(fs *pflag.FlagSet, flags *Config) {
	if fs.Changed(flagEndpoint) {
		c.Endpoint = flags.Endpoint
	}
	if fs.Changed(flagStorage) {
		c.Storage = flags.Storage
	}
	if fs.Changed(flagLogLevel) {
		c.LogLevel = flags.LogLevel
	}
	if fs.Changed(flagLogFormat) {
		c.LogFormat = flags.LogFormat
	}
	if fs.Changed(flagTTUser) {
		c.Tarantool.User = flags.Tarantool.User
	}
	if fs.Changed(flagTTPassword) {
		c.Tarantool.Password = flags.Tarantool.Password
	}
	if fs.Changed(flagTTTimeout) {
		c.Tarantool.Timeout = flags.Tarantool.Timeout
	}
	if fs.Changed(flagTTReconnect) {
		c.Tarantool.Reconnect = flags.Tarantool.Reconnect
	}
	if fs.Changed(flagTTRetries) {
		c.Tarantool.MaxReconnects = flags.Tarantool.MaxReconnects
	}
}

func (c Config) Validate() error {
	if _, err := c.EndpointURL(); err != nil {
		return err
	}
	if _, err := ParseStorage(c.Storage); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != FormatTerminal && c.LogFormat != FormatJSON {
		return ErrLogFormat
	}
	return nil
}

func (c Config) EndpointURL() (*url.URL, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) < 1 {
		return nil, ErrEndpoint
	}
	return u, nil
}

func (c Config) Level() (logging.Lvl, error) {
	lvl, err := logging.LvlFromString(strings.ToLower(c.LogLevel))
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c Config) LogHandler(w io.Writer) logging.Handler {
	if c.LogFormat == FormatJSON {
		return logging.StreamHandler(w, logging.JsonFormat())
	}
	return logging.StreamHandler(w, logging.TerminalFormat())
}
