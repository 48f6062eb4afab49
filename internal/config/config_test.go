package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "stock_data.db" {
		t.Errorf("database_path default: got %q", cfg.DatabasePath)
	}
	if cfg.DataSource.MaxRetries != 3 {
		t.Errorf("max retries default: got %d", cfg.DataSource.MaxRetries)
	}
	if cfg.DataSource.RetryDelaySeconds != 10 {
		t.Errorf("retry delay default: got %d", cfg.DataSource.RetryDelaySeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `database_path: /tmp/test.db
data_source:
  aktools_base_url: http://aktools:8080
  akshare_max_retries: 5
  akshare_retry_delay_seconds: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("database_path: got %q", cfg.DatabasePath)
	}
	if cfg.DataSource.AKToolsBaseURL != "http://aktools:8080" {
		t.Errorf("base url: got %q", cfg.DataSource.AKToolsBaseURL)
	}
	if cfg.DataSource.MaxRetries != 5 {
		t.Errorf("max retries: got %d", cfg.DataSource.MaxRetries)
	}
	if cfg.RetryDelay() != 2*time.Second {
		t.Errorf("retry delay: got %s", cfg.RetryDelay())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/data/override.db")
	t.Setenv("AKSHARE_MAX_RETRIES", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "/data/override.db" {
		t.Errorf("env override lost: got %q", cfg.DatabasePath)
	}
	if cfg.DataSource.MaxRetries != 7 {
		t.Errorf("env override lost: got %d", cfg.DataSource.MaxRetries)
	}
}

func TestValidateRejectsBadRetries(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.DataSource.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative retries")
	}
}

func TestPoolStocksAndUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_pool.json")
	content := `{"default_pool": ["SZ000858", "SH600036"], "my_watchlist": ["SZ000858", "SH601318"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pool: %v", err)
	}

	pool, err := LoadPool(path)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if got := pool.Stocks(DefaultPoolName); len(got) != 2 {
		t.Errorf("default pool: expected 2 codes, got %v", got)
	}
	if got := pool.Stocks("unknown"); len(got) != 0 {
		t.Errorf("missing pool should be empty, got %v", got)
	}

	all := pool.AllStocks()
	if len(all) != 3 {
		t.Errorf("union should deduplicate, got %v", all)
	}
}

func TestWriteDefaultsDoesNotClobber(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	poolPath := filepath.Join(dir, "stock_pool.json")

	if err := WriteDefaults(cfgPath, poolPath); err != nil {
		t.Fatalf("write defaults: %v", err)
	}
	pool, err := LoadPool(poolPath)
	if err != nil {
		t.Fatalf("load written pool: %v", err)
	}
	if len(pool.Stocks(DefaultPoolName)) == 0 {
		t.Error("default pool should not be empty")
	}

	// Second run must leave user edits alone.
	if err := os.WriteFile(cfgPath, []byte("database_path: custom.db\n"), 0o644); err != nil {
		t.Fatalf("edit config: %v", err)
	}
	if err := WriteDefaults(cfgPath, poolPath); err != nil {
		t.Fatalf("second write defaults: %v", err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "custom.db" {
		t.Errorf("existing config was overwritten: %q", cfg.DatabasePath)
	}
}
