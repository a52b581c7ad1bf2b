package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultStackedURL = "https://raw.githubusercontent.com/rwedell/data/master/commute_data_stacked_v2.csv"
	DefaultWideURL    = "https://raw.githubusercontent.com/rwedell/data/master/commute_data.csv"
	DefaultAddr       = "127.0.0.1:8050"
)

type Config struct {
	Addr         string        `mapstructure:"addr"`
	StackedURL   string        `mapstructure:"stacked_url"`
	WideURL      string        `mapstructure:"wide_url"`
	LogLevel     string        `mapstructure:"log_level"`
	AWSRegion    string        `mapstructure:"aws_region"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	ShowProgress bool          `mapstructure:"show_progress"`
	// export command
	OutputFolder string `mapstructure:"output_folder"`
	UploadURL    string `mapstructure:"upload_url"`
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("stacked_url", DefaultStackedURL)
	v.SetDefault("wide_url", DefaultWideURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("show_progress", false)
	v.SetDefault("output_folder", "./export")
}

// LoadConfig decodes the settings held by v into a Config
func LoadConfig(v *viper.Viper) (*Config, error) {
	var config Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate ensures all required fields are present
func (c *Config) Validate() error {
	if c.StackedURL == "" {
		return fmt.Errorf("stacked_url is required")
	}
	if c.WideURL == "" {
		return fmt.Errorf("wide_url is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}
