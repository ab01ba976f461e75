// Package config handles the XDG configuration directory, the config file,
// stored credentials and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "htask"

	// ConfigFile holds non-secret settings such as the API base URL.
	ConfigFile = "config.yaml"

	// CredentialsFile holds the user id and API token.
	CredentialsFile = "credentials.yaml"

	// TokenFile is an optional stored OAuth bearer token.
	TokenFile = "token.json"

	// SettingsFile is the SQLite database of local per-user settings.
	SettingsFile = "settings.db"

	// DefaultBaseURL is the API host used when nothing else is configured.
	DefaultBaseURL = "https://habitica.com"

	// DefaultClientID is sent in the x-client header.
	DefaultClientID = "htask-cli"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// BaseURL is the scheme and host of the task API.
	BaseURL string `yaml:"base_url"`

	// ClientID identifies this client to the API.
	ClientID string `yaml:"client_id"`

	Credentials Credentials `yaml:"-"`
}

// Credentials authenticate API requests.
type Credentials struct {
	UserID   string `yaml:"user_id"`
	APIToken string `yaml:"api_token"`
}

// Valid reports whether both halves of the credentials are present.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.UserID) != "" && strings.TrimSpace(c.APIToken) != ""
}

// envOverrides are read from the process environment after the files.
type envOverrides struct {
	BaseURL  string `env:"HTASK_BASE_URL"`
	ClientID string `env:"HTASK_CLIENT"`
	UserID   string `env:"HTASK_USER_ID"`
	APIToken string `env:"HTASK_API_TOKEN"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/htask or $HOME/.config/htask.
// Missing files are not an error; environment variables override file values.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	if err := readYAML(cfg.ConfigPath(), cfg); err != nil {
		return nil, err
	}
	if err := readYAML(cfg.CredentialsPath(), &cfg.Credentials); err != nil {
		return nil, err
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if ov.BaseURL != "" {
		cfg.BaseURL = ov.BaseURL
	}
	if ov.ClientID != "" {
		cfg.ClientID = ov.ClientID
	}
	if ov.UserID != "" {
		cfg.Credentials.UserID = ov.UserID
	}
	if ov.APIToken != "" {
		cfg.Credentials.APIToken = ov.APIToken
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	return cfg, nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// CredentialsPath returns the path to the stored credentials.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Dir, CredentialsFile)
}

// TokenPath returns the path to the stored OAuth bearer token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to the local settings database.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCredentials reports whether usable credentials are configured,
// from the credentials file or the environment.
func (c *Config) HasCredentials() bool {
	return c.Credentials.Valid()
}

// HasCredentialsFile checks if the credentials file exists.
func (c *Config) HasCredentialsFile() bool {
	_, err := os.Stat(c.CredentialsPath())
	return err == nil
}

// SaveCredentials writes creds to the credentials file with mode 0600.
func (c *Config) SaveCredentials(creds Credentials) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.CredentialsPath(), data, 0600); err != nil {
		return err
	}
	c.Credentials = creds
	return nil
}

// RemoveCredentials deletes the credentials file.
func (c *Config) RemoveCredentials() error {
	c.Credentials = Credentials{}
	return os.Remove(c.CredentialsPath())
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
