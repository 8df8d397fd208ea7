// Package config handles loading and validating brew configuration.
// Supports YAML config files and BREW_* environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/marcus/brew/internal/coffee"
)

// Validation errors.
var (
	ErrInvalidLogLevel  = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("logging.format must be one of: json, text")
	ErrInvalidCron      = errors.New("report.cron is not a valid cron expression")
	ErrNegativePrice    = errors.New("topping price must not be negative")
)

// Config holds all brew configuration.
type Config struct {
	Currency string           `mapstructure:"currency"`
	MenuFile string           `mapstructure:"menu_file"`
	Toppings []coffee.Topping `mapstructure:"toppings"`
	DBPath   string           `mapstructure:"db_path"`
	Logging  LoggingConfig    `mapstructure:"logging"`
	Report   ReportConfig     `mapstructure:"report"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Path          string `mapstructure:"path"`
	Format        string `mapstructure:"format"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// ReportConfig controls the daemon's scheduled sales report.
type ReportConfig struct {
	Cron string `mapstructure:"cron"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "brew", "config.yaml")
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "brew", "brew.db")
}

// DefaultLogPath returns the default log directory.
func DefaultLogPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "brew", "logs")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("currency", "₩")
	v.SetDefault("menu_file", "")
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", DefaultLogPath())
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.retention_days", 7)
	v.SetDefault("report.cron", "0 22 * * *")
}

// Load reads configuration from the default path and environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration from path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("BREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		path = expandPath(path)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for invalid values. Empty fields are allowed and
// take their defaults elsewhere.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		return ErrInvalidLogFormat
	}

	if cfg.Report.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Report.Cron); err != nil {
			return ErrInvalidCron
		}
	}

	for _, t := range cfg.Toppings {
		if t.Price < 0 {
			return ErrNegativePrice
		}
	}

	return nil
}

// CurrencySymbol returns the configured symbol, defaulting to ₩.
func (c *Config) CurrencySymbol() string {
	if c.Currency == "" {
		return "₩"
	}
	return c.Currency
}

// ExpandedDBPath returns the DB path with ~ expanded.
func (c *Config) ExpandedDBPath() string {
	if c.DBPath == "" {
		return DefaultDBPath()
	}
	return expandPath(c.DBPath)
}

// ExpandedMenuFile returns the menu file path with ~ expanded, or "" when unset.
func (c *Config) ExpandedMenuFile() string {
	return expandPath(c.MenuFile)
}

// ExpandedLogPath returns the log directory with ~ expanded.
func (c *Config) ExpandedLogPath() string {
	if c.Logging.Path == "" {
		return DefaultLogPath()
	}
	return expandPath(c.Logging.Path)
}

// WriteDefault writes a default config file to path. It refuses to overwrite
// unless force is set.
func WriteDefault(path string, force bool) error {
	path = expandPath(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	toppings := make([]map[string]any, 0, len(coffee.DefaultToppings()))
	for _, t := range coffee.DefaultToppings() {
		toppings = append(toppings, map[string]any{"name": t.Name, "label": t.Label, "price": t.Price})
	}
	v.Set("toppings", toppings)
	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
