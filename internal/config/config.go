package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	SQLDatabase   DatabaseConfig  `yaml:"sql_database"`   // SQLite for brands and tracked queries
	NoSQLDatabase DatabaseConfig  `yaml:"nosql_database"` // MongoDB for query results and analytics
	Providers     ProvidersConfig `yaml:"providers"`
	Storage       StorageConfig   `yaml:"storage"`
	LogLevel      string          `yaml:"log_level,omitempty"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// ProviderConfig represents one answer-engine configuration
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// ProvidersConfig holds the per-engine configurations
type ProvidersConfig struct {
	ChatGPT    ProviderConfig `yaml:"chatgpt"`
	GoogleAI   ProviderConfig `yaml:"google_ai"`
	Perplexity ProviderConfig `yaml:"perplexity"`
	// RateLimitPerSecond throttles outbound provider calls during a session
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second,omitempty"`
}

// StorageConfig tunes the overflow handling of the primary record store
type StorageConfig struct {
	MaxRecordBytes int     `yaml:"max_record_bytes,omitempty"` // hard per-record ceiling
	SafetyMargin   float64 `yaml:"safety_margin,omitempty"`    // overflow triggers at ceiling*margin
	BlobBucket     string  `yaml:"blob_bucket,omitempty"`      // GridFS bucket name
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "brandlens.db",
			Database: "brandlens",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "brandlens",
		},
		Providers: ProvidersConfig{
			ChatGPT:            ProviderConfig{Model: "gpt-4o", Enabled: true},
			GoogleAI:           ProviderConfig{Model: "gemini-2.0-flash", Enabled: true},
			Perplexity:         ProviderConfig{Model: "sonar", Enabled: true},
			RateLimitPerSecond: 1,
		},
		Storage: StorageConfig{
			MaxRecordBytes: 1048576,
			SafetyMargin:   0.80,
			BlobBucket:     "overflow",
		},
		LogLevel: "INFO",
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brandlens/config.yaml"
	}
	return filepath.Join(home, ".brandlens", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
