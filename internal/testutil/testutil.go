// Package testutil provides shared test helpers for setting up vaults and stores.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
	"github.com/alexanderjmontague/jot-sub000/internal/vaultconfig"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStore creates a configured thread store backed by a temporary vault.
// It returns the store and the comments directory.
func TestStore(t *testing.T) (*threadstore.Store, string) {
	t.Helper()

	vaultDir := t.TempDir()
	cfgs := vaultconfig.NewStore(filepath.Join(t.TempDir(), "config.json"))

	store := threadstore.New(cfgs, Logger())
	cfg, err := store.SetConfig(vaultDir, "jot")
	if err != nil {
		t.Fatal(err)
	}
	return store, filepath.Join(cfg.VaultPath, cfg.CommentFolder)
}

// UnconfiguredStore creates a thread store with no vault configured.
func UnconfiguredStore(t *testing.T) *threadstore.Store {
	t.Helper()
	cfgs := vaultconfig.NewStore(filepath.Join(t.TempDir(), "config.json"))
	return threadstore.New(cfgs, Logger())
}
