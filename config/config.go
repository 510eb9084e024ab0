package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the declarative query specification plus scheduling. The
// query block maps one-to-one onto the provider search filters.
type Config struct {
	Query struct {
		Locations  []string `yaml:"locations"`
		HouseTypes []string `yaml:"house_types"`
		RoomCounts []int    `yaml:"room_counts"`
		PriceMin   int      `yaml:"price_min"`
		PriceMax   int      `yaml:"price_max"`
		SizeMin    int      `yaml:"size_min"`
		SizeMax    int      `yaml:"size_max"`
		Limit      int      `yaml:"limit"`
	} `yaml:"query"`
	IntervalHours int `yaml:"interval_hours"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// GetDefaultConfig returns a configuration with defaults only.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Query.Limit <= 0 {
		cfg.Query.Limit = 50
	}
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 2
	}
}
