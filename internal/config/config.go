package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the chartdeck platform.
type Config struct {
	Analytics Analytics `yaml:"analytics"`
	Storage   Storage   `yaml:"storage"`
	Server    Server    `yaml:"server"`
	Chart     Chart     `yaml:"chart"`
	Alpaca    Alpaca    `yaml:"alpaca"`
	Refresh   Refresh   `yaml:"refresh"`
	Logging   Logging   `yaml:"logging"`
}

// Analytics points at the remote analytics API that produces candles,
// indicator series, and detected patterns.
type Analytics struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	MaxRetries     int    `yaml:"max_retries"`
	CacheTTLSec    int    `yaml:"cache_ttl_sec"`
	RateLimitPerMin int   `yaml:"rate_limit_per_min"`
}

// Storage holds paths for data persistence.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
	ArchiveDir string `yaml:"archive_dir"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Chart configures the rendering surfaces.
type Chart struct {
	Width            int `yaml:"width"`
	PriceHeight      int `yaml:"price_height"`
	OscillatorHeight int `yaml:"oscillator_height"`
}

// Alpaca holds credentials for the Alpaca API, used for watchlists.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
}

// Refresh controls the scheduled dataset refresh.
type Refresh struct {
	CronSpec string   `yaml:"cron_spec"`
	Symbols  []string `yaml:"symbols"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies defaults, and then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Analytics.TimeoutSec == 0 {
		cfg.Analytics.TimeoutSec = 30
	}
	if cfg.Analytics.MaxRetries == 0 {
		cfg.Analytics.MaxRetries = 3
	}
	if cfg.Analytics.CacheTTLSec == 0 {
		cfg.Analytics.CacheTTLSec = 300
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 800
	}
	if cfg.Chart.PriceHeight == 0 {
		cfg.Chart.PriceHeight = 400
	}
	if cfg.Chart.OscillatorHeight == 0 {
		cfg.Chart.OscillatorHeight = 160
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANALYTICS_BASE_URL"); v != "" {
		cfg.Analytics.BaseURL = v
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ARCHIVE_DIR"); v != "" {
		cfg.Storage.ArchiveDir = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}

	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
