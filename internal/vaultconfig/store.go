// Package vaultconfig persists the host's vault configuration as a JSON
// file at a fixed per-user location.
package vaultconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
)

// DefaultCommentFolder is used when setConfig omits a folder name.
const DefaultCommentFolder = "jot"

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/jot/config.json on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("vaultconfig: resolve user config dir: %w", err)
	}
	return filepath.Join(base, "jot", "config.json"), nil
}

// Store reads and writes the vault configuration file. The file is created
// on first Save and never deleted by the host.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the current configuration. A missing file means the host is
// not configured yet and returns (nil, nil).
func (s *Store) Load() (*models.VaultConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("vaultconfig: read %s: %w", s.path, err)
	}
	var cfg models.VaultConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("vaultconfig: parse %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Save writes cfg, creating parent directories as needed. The write goes
// through a temp file and rename so a crash cannot leave a torn config.
func (s *Store) Save(cfg *models.VaultConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("vaultconfig: encode: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vaultconfig: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("vaultconfig: create temp: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("vaultconfig: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vaultconfig: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("vaultconfig: rename: %w", err)
	}
	success = true
	return nil
}
