package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	u, err := cfg.EndpointURL()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8545", u.Host)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, logging.LvlInfo, lvl)
}

func TestLoadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "dappvotes-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "dappvotes.yml")
	content := `
endpoint: http://0.0.0.0:9545/rpc
storage: file:///var/lib/dappvotes
tarantool:
  timeout: 2s
`
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	require.Equal(t, "http://0.0.0.0:9545/rpc", cfg.Endpoint)
	require.Equal(t, "file:///var/lib/dappvotes", cfg.Storage)
	require.Equal(t, 2*time.Second, cfg.Tarantool.Timeout)
	require.Equal(t, 3*time.Second, cfg.Tarantool.Reconnect)
	require.Equal(t, FormatTerminal, cfg.LogFormat)

	require.NoError(t, ioutil.WriteFile(path, []byte("unknown: 1\n"), 0600))
	require.Error(t, cfg.LoadFile(path))
}

func TestLoadEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadEnv(envOf(map[string]string{
		"DAPPVOTES_LOG_LEVEL": "debug",
		"TT_ADDRESS":          "127.0.0.1:3301",
		"TT_USER":             "guest",
		"TT_MAX_RECONNECTS":   "2",
	})))
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "tarantool://127.0.0.1:3301", cfg.Storage)
	require.Equal(t, "guest", cfg.Tarantool.User)
	require.Equal(t, uint(2), cfg.Tarantool.MaxReconnects)
	require.Equal(t, DefaultEndpoint, cfg.Endpoint)

	require.Error(t, cfg.LoadEnv(envOf(map[string]string{"TT_TIMEOUT": "soon"})))
}

func TestOverrideOnlyChangedFlags(t *testing.T) {
	flags := Default()
	fs := pflag.NewFlagSet("node", pflag.ContinueOnError)
	flags.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--storage", "leveldb://memory", "--log-format", "json"}))

	cfg := Default()
	cfg.Endpoint = "http://127.0.0.1:7545"
	cfg.Override(fs, &flags)

	require.Equal(t, "leveldb://memory", cfg.Storage)
	require.Equal(t, FormatJSON, cfg.LogFormat)
	require.Equal(t, "http://127.0.0.1:7545", cfg.Endpoint)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"endpoint scheme": func(c *Config) { c.Endpoint = "ws://127.0.0.1:8545" },
		"endpoint host":   func(c *Config) { c.Endpoint = "http://" },
		"storage":         func(c *Config) { c.Storage = "redis://127.0.0.1" },
		"log level":       func(c *Config) { c.LogLevel = "loud" },
		"log format":      func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestParseStorage(t *testing.T) {
	cases := map[string]Storage{
		"memory://":                   {Kind: StorageMemory},
		"leveldb://memory":            {Kind: StorageLevelDB},
		"file:///var/lib/dappvotes":   {Kind: StorageLevelDB, Path: "/var/lib/dappvotes"},
		"tarantool://127.0.0.1:3301": {Kind: StorageTarantool, Address: "127.0.0.1:3301"},
	}
	for uri, expected := range cases {
		s, err := ParseStorage(uri)
		require.NoError(t, err, uri)
		require.Equal(t, expected, s, uri)
	}

	for _, uri := range []string{"leveldb://disk", "file://", "tarantool://", "s3://bucket"} {
		_, err := ParseStorage(uri)
		require.ErrorIs(t, err, ErrStorage, uri)
	}
}
