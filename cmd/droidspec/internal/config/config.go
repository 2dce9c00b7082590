// Package config loads the droidspec tool configuration. This is the tool's
// own settings file, not the spec files it operates on.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// AppName is the tool name, used for the config directory.
const AppName = "droidspec"

// Config holds user-tunable tool settings. Flags override config values,
// config values override defaults.
type Config struct {
	// Color enables styled terminal output.
	Color bool `mapstructure:"color"`
	// Format is the default output format for the convert command.
	Format string `mapstructure:"format"`
	// Strict promotes lint warnings to errors.
	Strict bool `mapstructure:"strict"`
	// SDKPath overrides SDK discovery for doctor.
	SDKPath string `mapstructure:"sdk_path"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Color:  true,
		Format: "yaml",
	}
}

// Dir returns the configuration directory using platform conventions:
// %APPDATA% on Windows, ~/Library/Application Support on macOS, and
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
func Dir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads config.yaml from the config directory, falling back to defaults
// when the file is absent. An explicit path overrides discovery.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("color", defaults.Color)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("sdk_path", defaults.SDKPath)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine; anything else is not.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
