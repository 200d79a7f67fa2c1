// Package config loads the pgpmime command configuration from an optional
// YAML file, with environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-pgpmime/message"
)

// Engine kinds.
const (
	EngineOpenPGP = "openpgp"
	EngineRemote  = "remote"
)

// EnvPrefix begins the name of every environment variable read by Load.
const EnvPrefix = "PGPMIME_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the complete command configuration.
type Config struct {
	Keys    KeysConfig    `yaml:"keys"`
	Compose ComposeConfig `yaml:"compose"`
	Engine  EngineConfig  `yaml:"engine"`
	Parse   ParseConfig   `yaml:"parse"`
	Logging LoggingConfig `yaml:"logging"`
}

// KeysConfig locates the OpenPGP keys.
type KeysConfig struct {
	// KeyRings are paths to ASCII-armored public or secret keyrings.
	KeyRings []string `yaml:"keyrings"`

	// Passphrase unlocks secret keys. Prefer the environment variable to
	// keeping this in a file.
	Passphrase string `yaml:"passphrase"`
}

// ComposeConfig holds defaults for outgoing messages.
type ComposeConfig struct {
	From       string   `yaml:"from"`
	Signer     string   `yaml:"signer"`
	Recipients []string `yaml:"recipients"`
}

// EngineConfig selects the encryption engine.
type EngineConfig struct {
	Kind    string   `yaml:"kind"`
	Command []string `yaml:"command"`
}

// ParseConfig limits what the parser accepts.
type ParseConfig struct {
	MaxDepth  int `yaml:"max_depth"`
	MaxLength int `yaml:"max_length"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer, then
// overrides it with environment variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPath returns the config file to use when none is named: the
// PGPMIME_CONFIG environment variable if set, or else config.yaml in the
// pgpmime user config directory. It returns an empty string if neither
// exists.
func DefaultPath() string {
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return v
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(dir, "pgpmime", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Engine.Kind {
	case EngineOpenPGP:
	case EngineRemote:
		if len(c.Engine.Command) == 0 {
			return fmt.Errorf("%w: the remote engine needs a command", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown engine kind %q", ErrInvalid, c.Engine.Kind)
	}

	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(c.Logging.Level)
}

// ParseOptions returns the parser options matching the configured limits.
func (c *Config) ParseOptions() []message.ParseOption {
	opts := []message.ParseOption{message.WithMaxLength(c.Parse.MaxLength)}
	if c.Parse.MaxDepth < 0 {
		opts = append(opts, message.WithUnlimitedRecursion())
	} else {
		opts = append(opts, message.WithMaxDepth(c.Parse.MaxDepth))
	}
	return opts
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Engine.Kind = EngineOpenPGP
	c.Parse.MaxDepth = message.DefaultMaxMultipartDepth
	c.Parse.MaxLength = message.DefaultMaxLength
	c.Logging.Level = "info"
}

// splitList splits a comma separated list, dropping empty items.
func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() error {
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	if v := env("KEYRINGS"); v != "" {
		c.Keys.KeyRings = splitList(v)
	}
	if v := env("PASSPHRASE"); v != "" {
		c.Keys.Passphrase = v
	}

	if v := env("FROM"); v != "" {
		c.Compose.From = v
	}
	if v := env("SIGNER"); v != "" {
		c.Compose.Signer = v
	}
	if v := env("RECIPIENTS"); v != "" {
		c.Compose.Recipients = splitList(v)
	}

	if v := env("ENGINE"); v != "" {
		c.Engine.Kind = strings.ToLower(v)
	}
	if v := env("ENGINE_COMMAND"); v != "" {
		c.Engine.Command = strings.Fields(v)
	}

	if v := env("MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_DEPTH: %w", EnvPrefix, err)
		}
		c.Parse.MaxDepth = n
	}
	if v := env("MAX_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_LENGTH: %w", EnvPrefix, err)
		}
		c.Parse.MaxLength = n
	}

	if v := env("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	return nil
}
