package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appDir = "orionledger"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice numbering and output
	Invoice InvoiceConfig `yaml:"invoice"`

	// Issuing business printed on every invoice
	Business BusinessConfig `yaml:"business"`

	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to the encrypted SQLite database
}

type InvoiceConfig struct {
	NumberPrefix string `yaml:"number_prefix"` // Order id prefix (e.g., "BCMP-25")
	Currency     string `yaml:"currency"`      // Currency code shown next to totals
	OutputDir    string `yaml:"output_dir"`    // Directory for generated PDFs
	Title        string `yaml:"title"`         // Heading of the PDF
}

type BusinessConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	File  string `yaml:"file"`  // Empty logs to stderr
}

// DefaultConfigPath returns ~/.config/orionledger/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", appDir)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "orionledger.db"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix: "BCMP-25",
			Currency:     "INR",
			OutputDir:    filepath.Join(dir, "invoices"),
			Title:        "OrionLedger - Mark OL1",
		},
		Business: BusinessConfig{
			Name:    "Best Cuts Media Production",
			Address: "264, SasthriNagar\nErode, TN\nIndia",
			Email:   "editor@bestcuts.in",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	// Unset keys keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate reports settings that would make invoices impossible to issue
func (c *Config) Validate() error {
	if c.Invoice.NumberPrefix == "" {
		return errors.New("invoice.number_prefix must not be empty")
	}
	if c.Invoice.OutputDir == "" {
		return errors.New("invoice.output_dir must not be empty")
	}
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database and invoice output directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.Invoice.OutputDir, 0755)
}
