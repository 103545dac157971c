package accountstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers"
)

// LegacyAccountType is the provider of accounts in files written before accounts carried a type.
const LegacyAccountType = "mojang"

var ErrAccountNotFound = errors.New("account not found")

// file is the on-disk layout of the account list.
type file struct {
	FormatVersion core.FileFormat `json:"formatVersion"`
	Accounts      []core.Document `json:"accounts"`
	Active        string          `json:"active,omitempty"`
}

// Store reads and writes the account list file.
type Store struct {
	path     string
	registry *providers.Registry
}

func New(path string, registry *providers.Registry) *Store {
	return &Store{
		path:     path,
		registry: registry,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the account list. A missing file is an empty list.
// If any account in the file is malformed, no account is returned.
func (s *Store) Load() (*AccountList, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &AccountList{}, nil
		}
		return nil, fmt.Errorf("opening accounts file '%s': %w", s.path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var raw file
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding accounts file '%s': %w", s.path, err)
	}
	if !raw.FormatVersion.Supported() {
		return nil, core.NewFormatError("formatVersion", "unsupported format version %d", raw.FormatVersion)
	}

	list := &AccountList{}
	for idx, doc := range raw.Accounts {
		acc, err := s.registry.Decode(raw.FormatVersion, doc, LegacyAccountType)
		if err != nil {
			return nil, fmt.Errorf("loading account #%d: %w", idx, err)
		}
		list.accounts = append(list.accounts, acc)
	}
	if raw.Active != "" && list.Find(raw.Active) != nil {
		list.active = raw.Active
	}
	return list, nil
}

// Save writes the account list in the current format.
func (s *Store) Save(list *AccountList) error {
	raw := file{
		FormatVersion: core.CurrentFormat,
		Accounts:      make([]core.Document, 0, len(list.accounts)),
		Active:        list.active,
	}
	for _, acc := range list.accounts {
		raw.Accounts = append(raw.Accounts, providers.Encode(acc))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating accounts directory '%s': %w", dir, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening accounts file '%s' for writing: %w", s.path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("encoding accounts to file '%s': %w", s.path, err)
	}
	return nil
}
