// Package index maintains the JSON side-file mapping normalized URLs to
// their backing markdown filenames. The index is an acceleration cache,
// not the source of truth: the markdown files are authoritative, and every
// reader must tolerate a missing or corrupt index by treating it as empty.
package index

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
)

// Filename is the side-index file inside the comments directory. The dot
// prefix keeps it out of directory scans.
const Filename = ".jot-index.json"

type fileFormat struct {
	Entries map[string]models.IndexEntry `json:"entries"`
}

// Index is an in-memory copy of the side index with dirty tracking.
type Index struct {
	entries map[string]models.IndexEntry
	dirty   bool
}

// Decode parses raw index bytes. Nil, empty, or corrupt input yields an
// empty index; lookups degrade rather than fail.
func Decode(data []byte) *Index {
	ix := &Index{entries: make(map[string]models.IndexEntry)}
	if len(data) == 0 {
		return ix
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil || f.Entries == nil {
		return ix
	}
	ix.entries = f.Entries
	return ix
}

// Encode renders the index for its whole-file rewrite.
func (ix *Index) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(fileFormat{Entries: ix.entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("index: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Lookup returns the entry for a normalized URL.
func (ix *Index) Lookup(url string) (models.IndexEntry, bool) {
	e, ok := ix.entries[url]
	return e, ok
}

// Upsert records an entry, marking the index dirty only on change.
func (ix *Index) Upsert(url string, e models.IndexEntry) {
	if cur, ok := ix.entries[url]; ok && cur == e {
		return
	}
	ix.entries[url] = e
	ix.dirty = true
}

// Remove drops an entry if present.
func (ix *Index) Remove(url string) {
	if _, ok := ix.entries[url]; !ok {
		return
	}
	delete(ix.entries, url)
	ix.dirty = true
}

// Dirty reports whether the index diverged from its decoded state.
func (ix *Index) Dirty() bool { return ix.dirty }

// Len returns the number of entries.
func (ix *Index) Len() int { return len(ix.entries) }

// URLs returns the indexed normalized URLs in stable order, so iteration
// during reconciliation is deterministic.
func (ix *Index) URLs() []string {
	out := make([]string, 0, len(ix.entries))
	for u := range ix.entries {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
