// Package config loads the jellybridge CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ExecutionConfig tunes the code execution collaborator.
type ExecutionConfig struct {
	// Timeout bounds each snippet.
	Timeout time.Duration

	// AllowedPackages restricts snippet imports. Empty means the executor default.
	AllowedPackages []string
}

// ServerConfig identifies the MCP server.
type ServerConfig struct {
	Name    string
	Version string
}

// Config represents the CLI configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	Execution ExecutionConfig
	Server    ServerConfig
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Execution: ExecutionConfig{
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Name:    "jellybridge",
			Version: "dev",
		},
	}
}

type yamlConfig struct {
	LogLevel  string `yaml:"log_level"`
	Execution struct {
		Timeout         string   `yaml:"timeout"`
		AllowedPackages []string `yaml:"allowed_packages"`
	} `yaml:"execution"`
	Server struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"server"`
}

// Load reads the configuration at path. A missing file yields the defaults;
// values present in the file override them.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.Execution.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Execution.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid execution.timeout %q: %w", raw.Execution.Timeout, err)
		}
		cfg.Execution.Timeout = timeout
	}
	if len(raw.Execution.AllowedPackages) > 0 {
		cfg.Execution.AllowedPackages = raw.Execution.AllowedPackages
	}
	if raw.Server.Name != "" {
		cfg.Server.Name = raw.Server.Name
	}
	if raw.Server.Version != "" {
		cfg.Server.Version = raw.Server.Version
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Execution.Timeout <= 0 {
		return fmt.Errorf("execution.timeout must be positive, got %v", c.Execution.Timeout)
	}
	return nil
}
