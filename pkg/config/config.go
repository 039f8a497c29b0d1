// Package config loads CLI configuration from file, environment and
// flags via viper.
package config

import (
	"fmt"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// Config holds pgrst CLI configuration.
type Config struct {
	BaseURL     string            `mapstructure:"baseURL"`
	Schema      string            `mapstructure:"schema"`
	Token       string            `mapstructure:"token"`
	BasicAuth   BasicAuthConfig   `mapstructure:"basicAuth"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Headers     map[string]string `mapstructure:"headers"`
	MetricsAddr string            `mapstructure:"metricsAddr"`
}

type BasicAuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type RetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"maxRetries"`
	InitialBackoff time.Duration `mapstructure:"initialBackoff"`
	MaxBackoff     time.Duration `mapstructure:"maxBackoff"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL: "http://localhost:3000",
		Schema:  "public",
		Timeout: 30 * time.Second,
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     10 * time.Second,
		},
	}
}

// Load reads config from file or environment. An empty cfgFile falls
// back to pgrst.yaml in the working directory or ~/.config.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pgrst")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PGRST")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.StringToTimeDurationHookFunc(),
	)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// viper lowercases map keys; restore canonical header casing.
	if len(cfg.Headers) > 0 {
		canonical := make(map[string]string, len(cfg.Headers))
		for k, val := range cfg.Headers {
			canonical[textproto.CanonicalMIMEHeaderKey(k)] = val
		}
		cfg.Headers = canonical
	}

	return &cfg, nil
}
