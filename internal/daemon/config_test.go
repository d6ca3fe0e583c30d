package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hearth-ledger/hearth/internal/infra/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8443 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8443)
	}
	if cfg.Database.Driver != store.DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, store.DriverSQLite)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if !cfg.Ledger.WarmOnStart {
		t.Error("Ledger.WarmOnStart should be true by default")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
port = 9000
request_timeout = "5s"

[database]
path = "/var/lib/hearth"

[log]
level = "debug"
development = true

[ledger]
bloom_expected_items = 5000
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, default should survive", cfg.API.Host)
	}
	if cfg.Database.Path != "/var/lib/hearth" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if !cfg.Log.Development || cfg.Log.Level != "debug" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Ledger.BloomExpectedItems != 5000 || cfg.Ledger.BloomFPRate != 0.001 {
		t.Errorf("Ledger = %+v", cfg.Ledger)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key": "[api]\nbind = \"0.0.0.0\"\n",
		"bad driver":  "[database]\ndriver = \"mysql\"\n",
		"pg no dsn":   "[database]\ndriver = \"postgres\"\n",
		"bad port":    "[api]\nport = 70000\n",
		"bad timeout": "[api]\nrequest_timeout = \"soon\"\n",
		"bad level":   "[log]\nlevel = \"loud\"\n",
		"bad fp rate": "[ledger]\nbloom_fp_rate = 1.5\n",
		"not toml":    "this is = = not toml",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() should fail")
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HEARTH_API_PORT", "9100")
	t.Setenv("HEARTH_LOG_LEVEL", "warn")
	t.Setenv("HEARTH_DB_PATH", "/tmp/hearth-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 9100 {
		t.Errorf("API.Port = %d, want 9100", cfg.API.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Database.Path != "/tmp/hearth-env" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}

	t.Setenv("HEARTH_API_PORT", "eighty")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("non-numeric HEARTH_API_PORT should fail")
	}
}

func TestAPIConfig_Addr(t *testing.T) {
	a := APIConfig{Host: "127.0.0.1", Port: 8443}
	if got := a.Addr(); got != "127.0.0.1:8443" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestNew_WiresServices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = t.TempDir()

	d, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer d.Close()

	w := httptest.NewRecorder()
	d.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", w.Code)
	}
}
