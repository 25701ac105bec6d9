// Package config loads oficina.yaml and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project directory.
const FileName = "oficina.yaml"

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Environment variables that override file values.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "OFICINA_LOG_LEVEL"
)

// Config represents the top-level oficina.yaml configuration.
type Config struct {
	Company CompanyConfig `yaml:"company"`
	Storage StorageConfig `yaml:"storage"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Logging LoggingConfig `yaml:"logging"`
	Git     GitConfig     `yaml:"git"`
}

// CompanyConfig identifies the company the data belongs to.
type CompanyConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Dir is the data directory of the file backend, relative to the project directory.
	Dir string `yaml:"dir,omitempty"`
	DSN string `yaml:"dsn,omitempty"`
}

// LedgerConfig holds the payable/receivable rules.
type LedgerConfig struct {
	AllowOverpayment bool `yaml:"allow_overpayment"`
}

// LoggingConfig mirrors logger.LogConfig.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Output is stderr, stdout or a file path relative to the project.
	Output string `yaml:"output,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an oficina.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject loads <dir>/.env, if present, then <dir>/oficina.yaml, and
// applies environment overrides.
func LoadProject(dir string) (*Config, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with DATABASE_URL and OFICINA_LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// DataDir resolves the file backend directory against the project directory.
func (c *Config) DataDir(projectDir string) string {
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(projectDir, c.Storage.Dir)
}

func (c *Config) fillDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(companyName string) *Config {
	cfg := &Config{
		Company: CompanyConfig{Name: companyName},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Oficina",
			AuthorEmail: "oficina@localhost",
		},
	}
	cfg.fillDefaults()
	return cfg
}
