package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// CupAndHandleParams holds the tunable thresholds for cup-and-handle detection.
type CupAndHandleParams struct {
	CupDepthMin     float64 `yaml:"cup_depth_min"`
	CupDepthMax     float64 `yaml:"cup_depth_max"`
	HandleDepthMin  float64 `yaml:"handle_depth_min"`
	HandleDepthMax  float64 `yaml:"handle_depth_max"`
	HandleLengthMax float64 `yaml:"handle_length_max"`
}

// Config holds all application configuration.
type Config struct {
	Stocks       []string `yaml:"stocks"`
	TradingHours struct {
		Start    string `yaml:"start"` // "HH:MM"
		End      string `yaml:"end"`
		Timezone string `yaml:"timezone"`
	} `yaml:"trading_hours"`
	Collection struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		RetentionDays   int `yaml:"retention_days"`
	} `yaml:"collection"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"api"`
	Patterns struct {
		CupAndHandle CupAndHandleParams `yaml:"cup_and_handle"`
	} `yaml:"patterns"`
	Logging struct {
		Level      string `yaml:"level"`
		FilePath   string `yaml:"file_path"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Console    bool   `yaml:"console"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COLLECTION_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Collection.IntervalMinutes = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Stocks) == 0 {
		cfg.Stocks = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}
	}
	if cfg.TradingHours.Start == "" {
		cfg.TradingHours.Start = "16:30"
	}
	if cfg.TradingHours.End == "" {
		cfg.TradingHours.End = "23:00"
	}
	if cfg.TradingHours.Timezone == "" {
		cfg.TradingHours.Timezone = "Asia/Jerusalem"
	}
	if cfg.Collection.IntervalMinutes == 0 {
		cfg.Collection.IntervalMinutes = 5
	}
	if cfg.Collection.RetentionDays == 0 {
		cfg.Collection.RetentionDays = 3
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_data.sqlite"
	}
	if cfg.API.Host == "" {
		cfg.API.Host = "localhost"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 5000
	}
	p := &cfg.Patterns.CupAndHandle
	if p.CupDepthMin == 0 {
		p.CupDepthMin = 0.10
	}
	if p.CupDepthMax == 0 {
		p.CupDepthMax = 0.60
	}
	if p.HandleDepthMin == 0 {
		p.HandleDepthMin = 0.10
	}
	if p.HandleDepthMax == 0 {
		p.HandleDepthMax = 0.60
	}
	if p.HandleLengthMax == 0 {
		p.HandleLengthMax = 0.70
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/pattern_sentinel.log"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 10
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 30
	}
}

// Validate checks that all required fields are sane.
func (c *Config) Validate() error {
	if len(c.Stocks) == 0 {
		return fmt.Errorf("stocks list must not be empty")
	}
	if _, err := time.LoadLocation(c.TradingHours.Timezone); err != nil {
		return fmt.Errorf("trading_hours.timezone: %w", err)
	}
	if c.Collection.IntervalMinutes <= 0 {
		return fmt.Errorf("collection.interval_minutes must be positive")
	}
	if c.Collection.RetentionDays <= 0 {
		return fmt.Errorf("collection.retention_days must be positive")
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be in (0, 65535]")
	}
	p := c.Patterns.CupAndHandle
	for name, v := range map[string]float64{
		"cup_depth_min":     p.CupDepthMin,
		"cup_depth_max":     p.CupDepthMax,
		"handle_depth_min":  p.HandleDepthMin,
		"handle_depth_max":  p.HandleDepthMax,
		"handle_length_max": p.HandleLengthMax,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("patterns.cup_and_handle.%s must be in (0, 1]", name)
		}
	}
	if p.CupDepthMin > p.CupDepthMax {
		return fmt.Errorf("patterns.cup_and_handle: cup_depth_min > cup_depth_max")
	}
	if p.HandleDepthMin > p.HandleDepthMax {
		return fmt.Errorf("patterns.cup_and_handle: handle_depth_min > handle_depth_max")
	}
	return nil
}
