package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// StockPool maps pool names to lists of stock codes.
type StockPool map[string][]string

// DefaultPoolName is the pool used when no name is given.
const DefaultPoolName = "default_pool"

// LoadPool reads the stock pool JSON file.
func LoadPool(path string) (StockPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stock pool: %w", err)
	}
	var pool StockPool
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parse stock pool: %w", err)
	}
	return pool, nil
}

// Stocks returns the codes in the named pool; a missing pool is empty,
// not an error.
func (p StockPool) Stocks(name string) []string {
	return p[name]
}

// AllStocks returns the deduplicated union of every pool, sorted.
func (p StockPool) AllStocks() []string {
	seen := map[string]bool{}
	var out []string
	for _, codes := range p {
		for _, c := range codes {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

// WriteDefaults creates a default config file and stock pool file at the
// given paths if they do not already exist. Existing files are left
// untouched.
func WriteDefaults(configPath, poolPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultCfg := `database_path: stock_data.db
pool_file: stock_pool.json
log_file: app.log
data_source:
  aktools_base_url: http://127.0.0.1:8080
  akshare_max_retries: 3
  akshare_retry_delay_seconds: 10
schedule:
  update_cron: "0 30 17 * * 1-5"
`
		if err := os.WriteFile(configPath, []byte(defaultCfg), 0o644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}

	if _, err := os.Stat(poolPath); os.IsNotExist(err) {
		pool := StockPool{
			DefaultPoolName: {"SZ000858"},
			"my_watchlist":  {"SZ000858"},
		}
		data, err := json.MarshalIndent(pool, "", "  ")
		if err != nil {
			return fmt.Errorf("encode default pool: %w", err)
		}
		if err := os.WriteFile(poolPath, data, 0o644); err != nil {
			return fmt.Errorf("write default pool: %w", err)
		}
	}
	return nil
}
