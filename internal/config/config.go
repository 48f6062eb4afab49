package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DatabasePath string `yaml:"database_path"`
	PoolFile     string `yaml:"pool_file"`
	LogFile      string `yaml:"log_file"`
	DataSource   struct {
		AKToolsBaseURL    string `yaml:"aktools_base_url"`
		MaxRetries        int    `yaml:"akshare_max_retries"`
		RetryDelaySeconds int    `yaml:"akshare_retry_delay_seconds"`
		Proxy             string `yaml:"proxy"`
	} `yaml:"data_source"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("AKTOOLS_BASE_URL"); v != "" {
		cfg.DataSource.AKToolsBaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("UPDATE_CRON"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("AKSHARE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.MaxRetries = n
		}
	}

	// Defaults
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "stock_data.db"
	}
	if cfg.PoolFile == "" {
		cfg.PoolFile = "stock_pool.json"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "app.log"
	}
	if cfg.DataSource.AKToolsBaseURL == "" {
		cfg.DataSource.AKToolsBaseURL = "http://127.0.0.1:8080"
	}
	if cfg.DataSource.MaxRetries == 0 {
		cfg.DataSource.MaxRetries = 3
	}
	if cfg.DataSource.RetryDelaySeconds == 0 {
		cfg.DataSource.RetryDelaySeconds = 10
	}
	if cfg.Schedule.UpdateCron == "" {
		cfg.Schedule.UpdateCron = "0 30 17 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.DataSource.MaxRetries < 1 {
		return fmt.Errorf("data_source.akshare_max_retries must be at least 1")
	}
	if c.DataSource.RetryDelaySeconds < 0 {
		return fmt.Errorf("data_source.akshare_retry_delay_seconds must not be negative")
	}
	return nil
}

// RetryDelay returns the configured fixed delay between fetch attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.DataSource.RetryDelaySeconds) * time.Second
}
