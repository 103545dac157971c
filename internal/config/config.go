package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	DefaultServerAddr    = "127.0.0.1:25585"
	DefaultTokenTTL      = 24 * time.Hour
	DefaultPurgeInterval = 10 * time.Minute
)

type Config struct {
	Providers []ProviderConfig `yaml:"providers"`

	// AccountsFile is where the account list is stored.
	// Defaults to <user config dir>/mcauth/accounts.json.
	AccountsFile string `yaml:"accounts_file"`

	Audit AuditConfig `yaml:"audit"`

	// Server configures the local authentication server emulator (`mcauth serve`).
	Server *ServerConfig `yaml:"server"`
}

// ProviderConfig holds configuration for one account provider.
type ProviderConfig struct {
	Type   string         `yaml:"type"`    // e.g., "mojang"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// SigningKey signs the issued access tokens. A random key is used if empty,
	// which invalidates all tokens on restart.
	SigningKey string `yaml:"signing_key"`

	TokenTTL      time.Duration `yaml:"token_ttl"`
	PurgeInterval time.Duration `yaml:"purge_interval"`

	Users []UserConfig `yaml:"users"`
}

type UserConfig struct {
	// ID of the remote user, generated from the username if empty.
	ID       string          `yaml:"id"`
	Username string          `yaml:"username"`
	Password string          `yaml:"password"`
	Profiles []ProfileConfig `yaml:"profiles"`

	// Properties are returned as the user's properties.
	Properties map[string]string `yaml:"properties"`
}

type ProfileConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Legacy bool   `yaml:"legacy"`
}

// Default is used when no config file is given: a single Mojang provider.
func Default() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{Type: "mojang"},
		},
	}
}

// DefaultAccountsFile returns <user config dir>/mcauth/accounts.json.
func DefaultAccountsFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(dir, "mcauth", "accounts.json"), nil
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = Default().Providers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	seen := make(map[string]struct{})
	for idx, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("provider at index %d has empty type", idx)
		}
		if _, dup := seen[p.Type]; dup {
			return fmt.Errorf("provider '%s' configured more than once", p.Type)
		}
		seen[p.Type] = struct{}{}
	}

	if c.Audit.Enabled && c.Audit.Type != "memory" && c.Audit.Type != "noop" && c.Audit.Path == "" {
		return fmt.Errorf("audit is enabled but audit.path is empty")
	}

	if c.Server != nil {
		if err := c.Server.Validate(); err != nil {
			return fmt.Errorf("validating server: %w", err)
		}
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.TokenTTL < 0 {
		return fmt.Errorf("token_ttl must not be negative")
	}
	usernames := make(map[string]struct{})
	profileIDs := make(map[string]struct{})
	for idx, u := range s.Users {
		if u.Username == "" {
			return fmt.Errorf("user at index %d has empty username", idx)
		}
		if u.Password == "" {
			return fmt.Errorf("user '%s' has empty password", u.Username)
		}
		if _, dup := usernames[u.Username]; dup {
			return fmt.Errorf("user '%s' is not unique", u.Username)
		}
		usernames[u.Username] = struct{}{}
		for pidx, p := range u.Profiles {
			if p.ID == "" || p.Name == "" {
				return fmt.Errorf("profile #%d of user '%s' needs id and name", pidx, u.Username)
			}
			if _, dup := profileIDs[p.ID]; dup {
				return fmt.Errorf("profile id '%s' is not unique", p.ID)
			}
			profileIDs[p.ID] = struct{}{}
		}
	}
	return nil
}

// WithDefaults fills the zero values of the server section.
func (s ServerConfig) WithDefaults() ServerConfig {
	if s.Addr == "" {
		s.Addr = DefaultServerAddr
	}
	if s.TokenTTL == 0 {
		s.TokenTTL = DefaultTokenTTL
	}
	if s.PurgeInterval == 0 {
		s.PurgeInterval = DefaultPurgeInterval
	}
	return s
}
