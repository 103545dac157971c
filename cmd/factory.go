package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darmiel/mcauth/internal/accountstore"
	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/config"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers"
	"github.com/darmiel/mcauth/pkg/client"
)

type Factory struct {
	// ConfigPath is the providers/server configuration file. Defaults apply if empty.
	ConfigPath string

	// AccountsPath overrides where the account list is stored.
	AccountsPath string

	// RemoteAddr is the address of the mcauth emulator for admin commands.
	RemoteAddr string
}

func NewFactory() *Factory {
	return &Factory{}
}

// Workspace is everything a command needs to work on the account list.
type Workspace struct {
	Config   *config.Config
	Auditor  core.Auditor
	Registry *providers.Registry
	Store    *accountstore.Store
	Accounts *accountstore.AccountList
}

func (w *Workspace) Save() error {
	return w.Store.Save(w.Accounts)
}

func (w *Workspace) Close() {
	_ = w.Auditor.Close()
}

func (f *Factory) LoadConfig() (*config.Config, error) {
	path := f.ConfigPath // prio 1: command-line flag
	if path == "" {
		path = viper.GetString(ConfigKey) // prio 2: config/env
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func (f *Factory) accountsPath(cfg *config.Config) (string, error) {
	if f.AccountsPath != "" {
		return f.AccountsPath, nil
	}
	if path := viper.GetString(AccountsKey); path != "" {
		return path, nil
	}
	if cfg.AccountsFile != "" {
		return cfg.AccountsFile, nil
	}
	return config.DefaultAccountsFile()
}

// Open loads the configuration and the account list.
func (f *Factory) Open() (*Workspace, error) {
	cfg, err := f.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	auditor, err := audit.New(cfg.Audit.Enabled, cfg.Audit.Type, cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("creating auditor: %w", err)
	}
	registry, err := providers.BuildRegistry(cfg.Providers, auditor)
	if err != nil {
		_ = auditor.Close()
		return nil, fmt.Errorf("building provider registry: %w", err)
	}
	path, err := f.accountsPath(cfg)
	if err != nil {
		_ = auditor.Close()
		return nil, err
	}
	store := accountstore.New(path, registry)
	accounts, err := store.Load()
	if err != nil {
		_ = auditor.Close()
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return &Workspace{
		Config:   cfg,
		Auditor:  auditor,
		Registry: registry,
		Store:    store,
		Accounts: accounts,
	}, nil
}

// GetClient returns a client for the admin routes of a running emulator.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set MCAUTH_SERVER)")
	}
	return client.New(server), nil
}

func (f *Factory) bindGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "Providers and server configuration file (YAML)")
	flags.StringVar(&f.AccountsPath, "accounts", "", "Accounts file (default is <user config dir>/mcauth/accounts.json)")
	flags.StringVar(&f.RemoteAddr, "server", "", "Address of a running mcauth emulator, for admin commands")
}
