// Package config loads and validates the process configuration from
// environment variables (prefix PRICECAL) merged over an optional YAML
// file. Validation runs once at startup; the rest of the program receives
// the struct by reference and never re-reads the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Calendar CalendarConfig `yaml:"calendar" envconfig:"CALENDAR"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	Output string `yaml:"output" envconfig:"OUTPUT"`
}

// DataConfig locates the reference data files.
type DataConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// CacheConfig sets the TTLs of derived structures. Annual summaries use a
// coarse TTL because the reference data changes infrequently.
type CacheConfig struct {
	MonthTTL  time.Duration `yaml:"month_ttl" envconfig:"MONTH_TTL"`
	AnnualTTL time.Duration `yaml:"annual_ttl" envconfig:"ANNUAL_TTL"`
}

// CalendarConfig is the recognized calendar option surface.
type CalendarConfig struct {
	WeekStart       string   `yaml:"week_start" envconfig:"WEEK_START"`
	ConfirmedBadge  bool     `yaml:"confirmed_badge_enabled" envconfig:"CONFIRMED_BADGE_ENABLED"`
	HeatmapBins     int      `yaml:"heatmap_bins" envconfig:"HEATMAP_BINS"`
	HeatmapMode     string   `yaml:"heatmap_mode" envconfig:"HEATMAP_MODE"`
	SeasonPalette   []string `yaml:"season_palette" envconfig:"SEASON_PALETTE"`
	PruneMode       string   `yaml:"prune_mode" envconfig:"PRUNE_MODE"`
	ShowEmptyMonths bool     `yaml:"show_empty_months" envconfig:"SHOW_EMPTY_MONTHS"`
}

// Default builds the configuration every deployment starts from. Defaults
// live here rather than in struct tags so the env layer only touches
// fields an env var actually names.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Data: DataConfig{Dir: "data"},
		Cache: CacheConfig{
			MonthTTL:  10 * time.Minute,
			AnnualTTL: 6 * time.Hour,
		},
		Calendar: CalendarConfig{
			WeekStart:      "sunday",
			ConfirmedBadge: true,
			HeatmapBins:    5,
			HeatmapMode:    "quantile",
			SeasonPalette:  []string{"#2166ac", "#67a9cf", "#d1e5f0", "#fddbc7", "#ef8a62", "#b2182b"},
			PruneMode:      "balanced",
		},
	}
}

// Load builds the configuration: defaults first, then the YAML file (when
// present), then environment variables on top, then validation.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("PRICECAL", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the core cannot serve. The process
// refuses to start on any violation rather than falling back silently.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	switch c.Calendar.WeekStart {
	case "sunday", "monday":
	default:
		return fmt.Errorf("week_start must be sunday or monday, got %q", c.Calendar.WeekStart)
	}

	switch c.Calendar.HeatmapBins {
	case 5, 7, 10:
	default:
		return fmt.Errorf("heatmap_bins must be 5, 7 or 10, got %d", c.Calendar.HeatmapBins)
	}

	switch c.Calendar.HeatmapMode {
	case "quantile", "linear":
	default:
		return fmt.Errorf("heatmap_mode must be quantile or linear, got %q", c.Calendar.HeatmapMode)
	}

	switch c.Calendar.PruneMode {
	case "tail", "balanced":
	default:
		return fmt.Errorf("prune_mode must be tail or balanced, got %q", c.Calendar.PruneMode)
	}

	if len(c.Calendar.SeasonPalette) < 1 {
		return fmt.Errorf("season_palette must have at least one color")
	}
	for _, color := range c.Calendar.SeasonPalette {
		if !validHexColor(color) {
			return fmt.Errorf("invalid palette color %q", color)
		}
	}

	if c.Cache.MonthTTL <= 0 || c.Cache.AnnualTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	return nil
}

func validHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
