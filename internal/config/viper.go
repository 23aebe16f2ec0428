// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Storage struct {
		Backend    string `mapstructure:"backend" yaml:"backend"`
		Directory  string `mapstructure:"directory" yaml:"directory"`
		SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
		Key        string `mapstructure:"key" yaml:"key"`
	} `mapstructure:"storage" yaml:"storage"`

	Sources struct {
		CategoriesURL  string `mapstructure:"categories_url" yaml:"categories_url"`
		IncomeURL      string `mapstructure:"income_url" yaml:"income_url"`
		BillsURL       string `mapstructure:"bills_url" yaml:"bills_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		SheetsAPIKey   string `mapstructure:"sheets_api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"sources" yaml:"sources"`

	Table struct {
		DefaultPageSize int `mapstructure:"default_page_size" yaml:"default_page_size"`
	} `mapstructure:"table" yaml:"table"`

	Dashboard struct {
		TopCategories int `mapstructure:"top_categories" yaml:"top_categories"`
	} `mapstructure:"dashboard" yaml:"dashboard"`

	Writeback struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
		AMQPURL        string `mapstructure:"amqp_url" yaml:"-"`
		AMQPExchange   string `mapstructure:"amqp_exchange" yaml:"amqp_exchange"`
		AMQPQueue      string `mapstructure:"amqp_queue" yaml:"amqp_queue"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"writeback" yaml:"writeback"`
}

// Source returns the configured location for a collection name.
func (c *Config) Source(kind string) string {
	switch kind {
	case "categories":
		return c.Sources.CategoriesURL
	case "income":
		return c.Sources.IncomeURL
	case "bills":
		return c.Sources.BillsURL
	}
	return ""
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// SourceTimeout is the per-request timeout for remote sources.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Sources.TimeoutSeconds) * time.Second
}

// WritebackTimeout bounds a single writeback delivery.
func (c *Config) WritebackTimeout() time.Duration {
	return time.Duration(c.Writeback.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A non-empty configFile replaces the search paths.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-dashboard")
		v.AddConfigPath(".budget-dashboard")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("BUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			logrus.WithError(err).WithField("file", v.ConfigFileUsed()).Warn("Error reading config file, using defaults")
		}
	}

	// 5. The Sheets API key is also accepted from the conventional variable
	if err := v.BindEnv("sources.sheets_api_key", "BUDGET_SOURCES_SHEETS_API_KEY", "GOOGLE_API_KEY"); err != nil {
		logrus.WithError(err).Warn("Failed to bind GOOGLE_API_KEY environment variable")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.directory", "")
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("storage.key", "bd.state")

	v.SetDefault("sources.categories_url", "")
	v.SetDefault("sources.income_url", "")
	v.SetDefault("sources.bills_url", "")
	v.SetDefault("sources.timeout_seconds", 30)

	v.SetDefault("table.default_page_size", 25)

	v.SetDefault("dashboard.top_categories", 5)

	v.SetDefault("writeback.enabled", false)
	v.SetDefault("writeback.endpoint", "")
	v.SetDefault("writeback.amqp_url", "")
	v.SetDefault("writeback.amqp_exchange", "budget.writeback")
	v.SetDefault("writeback.amqp_queue", "budget.writeback")
	v.SetDefault("writeback.timeout_seconds", 10)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Storage.Backend {
	case "memory", "file", "sqlite":
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'memory', 'file' or 'sqlite')", config.Storage.Backend)
	}
	if config.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}

	if config.Sources.TimeoutSeconds < 1 || config.Sources.TimeoutSeconds > 300 {
		return fmt.Errorf("sources.timeout_seconds must be between 1 and 300, got: %d", config.Sources.TimeoutSeconds)
	}

	switch config.Table.DefaultPageSize {
	case 0, 25, 50, 100:
	default:
		return fmt.Errorf("table.default_page_size must be 25, 50, 100 or 0 (all), got: %d", config.Table.DefaultPageSize)
	}

	if config.Dashboard.TopCategories < 0 {
		return fmt.Errorf("dashboard.top_categories must not be negative, got: %d", config.Dashboard.TopCategories)
	}

	if config.Writeback.Enabled {
		if config.Writeback.Endpoint == "" && config.Writeback.AMQPURL == "" {
			return fmt.Errorf("writeback.endpoint or writeback.amqp_url required when writeback is enabled")
		}
		if config.Writeback.TimeoutSeconds < 1 || config.Writeback.TimeoutSeconds > 300 {
			return fmt.Errorf("writeback.timeout_seconds must be between 1 and 300, got: %d", config.Writeback.TimeoutSeconds)
		}
	}

	return nil
}
