// Package config loads the pascalc configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the configuration path.
const EnvVar = "PASCALC_CONFIG"

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Config holds the complete compiler configuration
type Config struct {
	Log         LogConfig         `toml:"log" yaml:"log"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`
	Dump        DumpConfig        `toml:"dump" yaml:"dump"`
	Tokens      TokensConfig      `toml:"tokens" yaml:"tokens"`

	path string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn or error.
	Format string `toml:"format" yaml:"format"` // text or json.
}

// DiagnosticsConfig holds settings for error reporting on the terminal
type DiagnosticsConfig struct {
	// Color enables styled diagnostics. Nil means enabled.
	Color *bool `toml:"color" yaml:"color"`
}

// DumpConfig holds syntax tree dump settings
type DumpConfig struct {
	Format string `toml:"format" yaml:"format"` // tree or yaml.
}

// TokensConfig holds the token file layout
type TokensConfig struct {
	LexemeWidth int  `toml:"lexeme_width" yaml:"lexeme_width"`
	KindWidth   int  `toml:"kind_width" yaml:"kind_width"`
	Lines       bool `toml:"lines" yaml:"lines"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The format is
// detected from the file extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	cfg, err := Parse(content, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes content in the given format, applies defaults and validates
// the result.
func Parse(content []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the PASCALC_CONFIG environment
// variable or the first default location that exists. When neither is set
// the default configuration is returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		for _, p := range defaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func defaultPaths() []string {
	paths := []string{"./pascalc.toml", "./pascalc.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "pascalc", "config.toml"),
			filepath.Join(home, ".config", "pascalc", "config.yaml"),
		)
	}
	return paths
}

// detectFormat determines the configuration format from file extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Diagnostics.Color == nil {
		color := true
		c.Diagnostics.Color = &color
	}
	if c.Dump.Format == "" {
		c.Dump.Format = "tree"
	}
	if c.Tokens.LexemeWidth == 0 {
		c.Tokens.LexemeWidth = 20
	}
	if c.Tokens.KindWidth == 0 {
		c.Tokens.KindWidth = 25
	}
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Dump.Format {
	case "tree", "yaml":
	default:
		return fmt.Errorf("dump.format must be tree or yaml, got %q", c.Dump.Format)
	}
	if c.Tokens.LexemeWidth < 0 || c.Tokens.KindWidth < 0 {
		return errors.New("token column widths must be positive")
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.Log.Level))
	if err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// ColorEnabled reports whether diagnostics should be styled.
func (c *Config) ColorEnabled() bool {
	return c.Diagnostics.Color == nil || *c.Diagnostics.Color
}

// Path returns the file the configuration was loaded from, empty for defaults.
func (c *Config) Path() string { return c.path }
