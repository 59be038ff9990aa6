// Package config loads clarq configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all clarq configuration.
type Config struct {
	// Ambiguity detection settings
	Detection DetectionConfig `yaml:"detection"`

	// Answer generation settings
	Answer AnswerConfig `yaml:"answer"`

	// Conversation storage settings
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DetectionConfig configures the ambiguity detector.
type DetectionConfig struct {
	// Score at or above which a query is treated as ambiguous.
	Threshold float64 `yaml:"threshold"`

	// How many recent messages feed the conversation context.
	HistoryWindow int `yaml:"history_window"`
}

// AnswerConfig configures the answer client.
type AnswerConfig struct {
	Provider string `yaml:"provider"` // gemini, canned
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// StorageConfig configures conversation persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			Threshold:     0.5,
			HistoryWindow: 5,
		},
		Answer: AnswerConfig{
			Provider: "canned",
			Model:    "gemini-2.5-flash",
		},
		Storage: StorageConfig{
			DatabasePath: "data/clarq.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	// Only the key comes from the environment; provider selection stays
	// with the config file so an explicit choice is never flipped.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Answer.APIKey = key
	}
	if path := os.Getenv("CLARQ_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if level := os.Getenv("CLARQ_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ValidProviders lists the supported answer providers.
var ValidProviders = []string{"gemini", "canned"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Detection.Threshold <= 0 || c.Detection.Threshold > 1 {
		return fmt.Errorf("detection threshold must be in (0, 1], got %v", c.Detection.Threshold)
	}
	if c.Detection.HistoryWindow < 1 {
		return fmt.Errorf("history window must be at least 1, got %d", c.Detection.HistoryWindow)
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.Answer.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid answer provider: %s (valid: %v)", c.Answer.Provider, ValidProviders)
	}
	if c.Answer.Provider == "gemini" && c.Answer.APIKey == "" {
		return fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY)")
	}

	return nil
}
