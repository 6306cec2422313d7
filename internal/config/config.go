// Package config loads rui settings from two layers: a per-user file
// handled by viper (with RUI_* environment overrides) and a per-project
// TOML manifest checked into the workspace.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the effective per-user configuration.
type Config struct {
	// CloudURL is the base URL of the component store API.
	CloudURL string `mapstructure:"cloud_url"`

	// APIKey authenticates against the store. Usually supplied via the
	// RUI_API_KEY environment variable rather than the config file.
	APIKey string `mapstructure:"api_key"`

	// RequestTimeout bounds individual API calls.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// ConnectTimeout bounds the initial session handshake.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// LogFile overrides the default rotating log location. Empty keeps
	// the per-project default.
	LogFile string `mapstructure:"log_file"`
}

const (
	defaultCloudURL       = "https://api.revolutionary-ui.com"
	defaultRequestTimeout = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// Load reads the user config file and environment. A missing config
// file is not an error; defaults and RUI_* variables still apply.
// path overrides the default search locations when non-empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "revolutionary-ui"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".revolutionary-ui"))
		}
	}

	v.SetEnvPrefix("RUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about; api_key
	// has no default, so it must be bound for RUI_API_KEY to be seen.
	if err := v.BindEnv("api_key"); err != nil {
		return nil, fmt.Errorf("failed to bind api_key env: %w", err)
	}

	v.SetDefault("cloud_url", defaultCloudURL)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("connect_timeout", defaultConnectTimeout)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields a connected command needs.
func (c *Config) Validate() error {
	if c.CloudURL == "" {
		return errors.New("cloud_url is not set")
	}
	if c.APIKey == "" {
		return errors.New("api_key is not set (set RUI_API_KEY or add it to the config file)")
	}
	return nil
}
