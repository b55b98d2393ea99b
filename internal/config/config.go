package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Catalog CatalogConfig
	Log     LogConfig
	Export  ExportConfig
}

// CatalogConfig holds template/rule catalog settings.
type CatalogConfig struct {
	// Dir is the directory holding template and field-rule definitions.
	// Seeded with built-in defaults when empty or missing.
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	// SheetName is the worksheet name used for XLSX exports.
	SheetName string `mapstructure:"sheet_name"`
}

// Load reads configuration from environment variables with the INEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Catalog defaults
	v.SetDefault("catalog.dir", "data/templates")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "development")

	// Export defaults
	v.SetDefault("export.sheet_name", "Submissions")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
