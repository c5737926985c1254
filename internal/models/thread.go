// Package models defines the domain types for jot.
package models

import "time"

// VaultConfig points the host at the user's vault. It lives as a JSON file
// at a fixed per-user location and is only ever mutated by setConfig.
type VaultConfig struct {
	VaultPath     string `json:"vaultPath"`
	CommentFolder string `json:"commentFolder"`
}

// Comment is a single timestamped entry in a thread. ID is the decimal
// unix-millisecond form of CreatedAt and is unique within its thread.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Thread is the set of comments attached to one normalized URL, backed by
// a single markdown file in the comments directory.
type Thread struct {
	ID              string    `json:"id"` // normalized URL
	URL             string    `json:"url"`
	Title           string    `json:"title,omitempty"`
	FaviconURL      string    `json:"faviconUrl,omitempty"`
	PreviewImageURL string    `json:"previewImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Comments        []Comment `json:"comments"`
}

// ThreadMetadata carries optional page metadata supplied alongside a new
// comment. Only non-empty fields are merged into the thread.
type ThreadMetadata struct {
	Title           string `json:"title,omitempty"`
	FaviconURL      string `json:"faviconUrl,omitempty"`
	PreviewImageURL string `json:"previewImageUrl,omitempty"`
}

// IndexEntry maps a normalized URL to its backing file in the side index.
type IndexEntry struct {
	Filename    string `json:"filename"`
	HasComments bool   `json:"hasComments"`
}
