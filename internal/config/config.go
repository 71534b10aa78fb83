package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Assas2401419/Guardian-Link/internal/logger"
)

// Config holds runtime settings shared by the Guardian Link binaries.
type Config struct {
	// ListenAddress is the address the HTTP/websocket gateway binds to.
	ListenAddress string `yaml:"listen_addr"`
	// ContactsFile is the path to the YAML contact roster.
	ContactsFile string `yaml:"contacts_file"`
	// LogLevel is the minimum log level (debug/info/warn/error/fatal).
	LogLevel string `yaml:"log_level"`
	// StartLatitude seeds the simulated position source.
	StartLatitude float64 `yaml:"start_latitude"`
	// StartLongitude seeds the simulated position source.
	StartLongitude float64 `yaml:"start_longitude"`
}

const (
	// DefaultConfigFilename is the default filename for runtime settings.
	DefaultConfigFilename = "guardian-link-settings.yaml"

	// DefaultContactsFilename is the default filename for the contact roster.
	DefaultContactsFilename = "guardian-link-contacts.yaml"

	// DefaultListenAddress is the default gateway bind address.
	DefaultListenAddress = ":8473"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned when the log level cannot be parsed.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a configuration populated with all default values.
func Default() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		ContactsFile:  DefaultContactsFilename,
		LogLevel:      "info",
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for the rest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.ContactsFile == "" {
		cfg.ContactsFile = DefaultContactsFilename
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}
