// Package config loads CLI configuration from file, environment, and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".nix-manipulator"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for nix-manipulator settings.
const envPrefix = "NIXMANIPULATOR"

// Config holds the CLI settings.
type Config struct {
	// Color controls colored output: auto, always, or never.
	Color string `mapstructure:"color"`

	// Diff prints a character diff when `test` detects a rebuild mismatch.
	Diff bool `mapstructure:"diff"`
}

// Validate checks setting values.
func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("invalid color setting %q (want auto, always, or never)", c.Color)
	}
}

// LoadConfig loads configuration from file, env vars, and defaults. If
// configPath is non-empty, it is used as the explicit config file path;
// otherwise the config file is searched in CWD and $HOME. A missing config
// file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("color", "auto")
	viperCfg.SetDefault("diff", false)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			var pathErr *os.PathError
			if !errors.As(readErr, &pathErr) {
				return nil, fmt.Errorf("read config: %w", readErr)
			}
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}
