// Package storage defines the comments-directory file abstraction.
package storage

import "time"

// FileMeta is lightweight metadata for one file in the comments directory.
type FileMeta struct {
	Name    string
	ModTime time.Time
}

// Provider is the interface for comments-directory file operations. All
// names are flat filenames inside the directory, never paths.
type Provider interface {
	// Root returns the absolute path of the comments directory.
	Root() string
	// List returns metadata for every visible .md file in the directory.
	// Dot-prefixed files (including the side index) are skipped.
	List() ([]FileMeta, error)
	// Stat returns metadata for a single file.
	Stat(name string) (FileMeta, error)
	// Exists reports whether the file is present.
	Exists(name string) bool
	// Read returns the raw bytes of the file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the file's content.
	Write(name string, content []byte) error
	// Delete removes the file.
	Delete(name string) error
}
