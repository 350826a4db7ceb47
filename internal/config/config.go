package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "passbook.yaml"

// Config represents the top-level passbook.yaml configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Run     RunConfig     `yaml:"run"`
	Logging LoggingConfig `yaml:"logging"`
	Git     GitConfig     `yaml:"git"`
}

// DisplayConfig controls how amounts are printed.
type DisplayConfig struct {
	Decimals int32  `yaml:"decimals" env:"PASSBOOK_DECIMALS"`
	Currency string `yaml:"currency,omitempty" env:"PASSBOOK_CURRENCY"`
}

// RunConfig controls scenario runs.
type RunConfig struct {
	Strict   bool `yaml:"strict" env:"PASSBOOK_STRICT"`
	WriteLog bool `yaml:"write_log" env:"PASSBOOK_WRITE_LOG"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level" env:"PASSBOOK_LOG_LEVEL"` // logrus level name
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"PASSBOOK_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a passbook.yaml file from disk and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default (plus environment) when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		if err := ApplyEnv(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// ApplyEnv overrides cfg with any PASSBOOK_* variables that are set.
func ApplyEnv(cfg *Config) error {
	for _, section := range []any{&cfg.Display, &cfg.Run, &cfg.Logging, &cfg.Git} {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("reading environment: %w", err)
		}
	}
	return nil
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
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Decimals: 2,
		},
		Run: RunConfig{
			WriteLog: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Passbook",
			AuthorEmail: "passbook@localhost",
		},
	}
}
