package threadstore

import (
	"log/slog"
	"sort"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
	"github.com/alexanderjmontague/jot-sub000/internal/storage"
)

// GetAllThreads returns every thread sorted by UpdatedAt descending, after
// reconciling the index against the filesystem: entries whose files are
// gone are pruned, and markdown files the index does not know about are
// adopted. Callers never need a separate rescan operation.
func (s *Store) GetAllThreads() ([]models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return nil, err
	}
	return s.reconcileLocked(files), nil
}

// Reconcile runs the same pass as GetAllThreads without returning threads.
// The watcher calls it after external file changes; an unconfigured store
// is a no-op.
func (s *Store) Reconcile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return nil
	}
	s.reconcileLocked(files)
	return nil
}

// reconcileLocked must be called with s.mu held.
func (s *Store) reconcileLocked(files storage.Provider) []models.Thread {
	ix := s.readIndex(files)
	seen := make(map[string]struct{}, ix.Len())
	var threads []models.Thread

	// Pass 1: existing entries. Prune those whose file is gone.
	for _, url := range ix.URLs() {
		e, _ := ix.Lookup(url)
		if !files.Exists(e.Filename) {
			ix.Remove(url)
			s.logger.Debug("threadstore: pruned stale index entry",
				slog.String("url", url), slog.String("filename", e.Filename))
			continue
		}
		seen[e.Filename] = struct{}{}
		th, err := s.loadThread(files, e.Filename)
		if err != nil {
			// A single unreadable file never fails the whole listing.
			s.logger.Warn("threadstore: skipping unreadable file",
				slog.String("filename", e.Filename), slog.String("error", err.Error()))
			continue
		}
		threads = append(threads, *th)
	}

	// Pass 2: adopt orphaned files the index does not know about.
	metas, err := files.List()
	if err != nil {
		s.logger.Warn("threadstore: directory scan failed", slog.String("error", err.Error()))
	} else {
		for _, m := range metas {
			if _, ok := seen[m.Name]; ok {
				continue
			}
			data, readErr := files.Read(m.Name)
			if readErr != nil {
				s.logger.Warn("threadstore: skipping unreadable file",
					slog.String("filename", m.Name), slog.String("error", readErr.Error()))
				continue
			}
			th := buildThread(m.Name, data, m.ModTime)
			ix.Upsert(th.ID, models.IndexEntry{Filename: m.Name, HasComments: len(th.Comments) > 0})
			threads = append(threads, *th)
			s.logger.Debug("threadstore: adopted orphaned file",
				slog.String("filename", m.Name), slog.String("url", th.ID))
		}
	}

	// A failed index persist must not prevent returning the collected list.
	if ix.Dirty() {
		if err := s.writeIndex(files, ix); err != nil {
			s.logger.Warn("threadstore: index persist failed", slog.String("error", err.Error()))
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})
	return threads
}
