// Package daemon loads hearth's configuration and wires the store,
// services and HTTP server together.
package daemon

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hearth-ledger/hearth/internal/infra/logging"
	"github.com/hearth-ledger/hearth/internal/infra/store"
)

// Config is the full hearth configuration, read from config.toml.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// APIConfig controls the REST listener.
type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	RequestTimeout string `toml:"request_timeout"` // Go duration, e.g. "30s"
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `toml:"driver"` // sqlite or postgres
	Path   string `toml:"path"`   // sqlite directory
	DSN    string `toml:"dsn"`    // postgres connection string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// LedgerConfig sizes the duplicate fast path.
type LedgerConfig struct {
	BloomExpectedItems int     `toml:"bloom_expected_items"`
	BloomFPRate        float64 `toml:"bloom_fp_rate"`
	WarmOnStart        bool    `toml:"warm_on_start"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// HomeDir returns $HEARTH_HOME, or ~/.hearth.
func HomeDir() string {
	if h := os.Getenv("HEARTH_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hearth"
	}
	return filepath.Join(home, ".hearth")
}

// DefaultConfigPath is where LoadConfig looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "config.toml")
}

// DefaultConfig returns safe defaults: local listener, embedded SQLite.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8443,
			RequestTimeout: "30s",
		},
		Database: DatabaseConfig{
			Driver: store.DriverSQLite,
			Path:   HomeDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Ledger: LedgerConfig{
			BloomExpectedItems: 100_000,
			BloomFPRate:        0.001,
			WarmOnStart:        true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads path over the defaults, then applies HEARTH_*
// environment overrides. A missing file is not an error; unknown keys are.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HEARTH_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("HEARTH_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("HEARTH_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("HEARTH_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTH_API_PORT: %w", err)
		}
		c.API.Port = port
	}
	if v := os.Getenv("HEARTH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case store.DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver %q: want %s or %s", c.Database.Driver, store.DriverSQLite, store.DriverPostgres)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if _, err := c.API.Timeout(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Ledger.BloomFPRate < 0 || c.Ledger.BloomFPRate >= 1 {
		return fmt.Errorf("ledger.bloom_fp_rate %v must be in [0, 1)", c.Ledger.BloomFPRate)
	}
	return nil
}

// Addr is the listen address.
func (a APIConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Timeout parses RequestTimeout; empty means 30s.
func (a APIConfig) Timeout() (time.Duration, error) {
	if a.RequestTimeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(a.RequestTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("api.request_timeout %q is not a positive duration", a.RequestTimeout)
	}
	return d, nil
}

// StoreConfig converts the database section for store.Open.
func (d DatabaseConfig) StoreConfig() store.Config {
	return store.Config{Driver: d.Driver, Path: d.Path, DSN: d.DSN}
}
