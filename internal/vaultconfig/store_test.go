package vaultconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
)

func TestLoad_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "config.json"))
	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != nil {
		t.Errorf("cfg = %+v, want nil", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Parent dir does not exist yet; Save must create it.
	s := NewStore(filepath.Join(t.TempDir(), "jot", "config.json"))
	want := &models.VaultConfig{VaultPath: "/home/me/vault", CommentFolder: "jot"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Error("expected error for corrupt config")
	}
}

func TestSave_Overwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "config.json"))
	_ = s.Save(&models.VaultConfig{VaultPath: "/old", CommentFolder: "jot"})
	if err := s.Save(&models.VaultConfig{VaultPath: "/new", CommentFolder: "notes"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.VaultPath != "/new" || got.CommentFolder != "notes" {
		t.Errorf("got %+v", got)
	}
}
