// Package config loads quotient settings from a .quotient.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory
// when no path is given.
const DefaultFile = ".quotient.yaml"

// Config is the top-level configuration.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	Module ModuleConfig `yaml:"module"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ModuleConfig names the object type to look for when describing a
// module from source.
type ModuleConfig struct {
	Object string `yaml:"object"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "warn"},
		Module: ModuleConfig{Object: "MyModule"},
	}
}

// Load reads the config file at path over the defaults. An empty
// path means DefaultFile, which may be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	if err := ValidateFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	if c.Module.Object == "" {
		return fmt.Errorf("module.object must not be empty")
	}
	return nil
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}
	return nil
}
