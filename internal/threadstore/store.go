// Package threadstore orchestrates the comment-thread vault: it resolves
// URLs through the side index to markdown files, loads and saves threads,
// and reconciles the index against real filesystem state. The markdown
// files are authoritative; the index is a cache that readers repair.
package threadstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alexanderjmontague/jot-sub000/internal/apperr"
	"github.com/alexanderjmontague/jot-sub000/internal/index"
	"github.com/alexanderjmontague/jot-sub000/internal/markdown"
	"github.com/alexanderjmontague/jot-sub000/internal/models"
	"github.com/alexanderjmontague/jot-sub000/internal/storage"
	"github.com/alexanderjmontague/jot-sub000/internal/urlnorm"
	"github.com/alexanderjmontague/jot-sub000/internal/vaultconfig"
)

// Store is the thread-store orchestrator. The mutex serializes every
// operation: the index file is shared unguarded state across calls, so no
// operation may start its filesystem effects before the previous one's are
// durable.
type Store struct {
	mu      sync.Mutex
	cfgs    *vaultconfig.Store
	cfg     *models.VaultConfig
	files   storage.Provider
	logger  *slog.Logger
	changes chan string
}

// New loads any existing vault configuration and prepares the store. A
// stale configuration (vault removed out of band) leaves the store
// unconfigured instead of failing startup; setConfig repairs it.
func New(cfgs *vaultconfig.Store, logger *slog.Logger) *Store {
	s := &Store{cfgs: cfgs, logger: logger, changes: make(chan string, 4)}

	cfg, err := cfgs.Load()
	if err != nil {
		logger.Warn("threadstore: config unreadable", slog.String("error", err.Error()))
		return s
	}
	if cfg == nil {
		return s
	}
	s.cfg = cfg
	files, err := storage.NewFS(commentsDir(cfg))
	if err != nil {
		logger.Warn("threadstore: comments directory unavailable",
			slog.String("vault_path", cfg.VaultPath),
			slog.String("error", err.Error()))
		return s
	}
	s.files = files
	return s
}

func commentsDir(cfg *models.VaultConfig) string {
	folder := cfg.CommentFolder
	if folder == "" {
		folder = vaultconfig.DefaultCommentFolder
	}
	return filepath.Join(cfg.VaultPath, folder)
}

// ConfigChanges emits the new comments directory after each successful
// SetConfig. The watcher uses it to re-arm on vault moves.
func (s *Store) ConfigChanges() <-chan string { return s.changes }

// CommentsDir returns the active comments directory, if configured.
func (s *Store) CommentsDir() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		return "", false
	}
	return s.files.Root(), true
}

// provider returns the comments-directory provider, rebuilding it lazily
// in case the directory reappeared since startup.
func (s *Store) provider() (storage.Provider, error) {
	if s.files != nil {
		return s.files, nil
	}
	if s.cfg != nil {
		if files, err := storage.NewFS(commentsDir(s.cfg)); err == nil {
			s.files = files
			return files, nil
		}
	}
	return nil, apperr.New(apperr.CodeNotConfigured, "vault is not configured")
}

// GetConfig returns the current vault configuration, or nil when unset.
func (s *Store) GetConfig() (*models.VaultConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, nil
	}
	cfg := *s.cfg
	return &cfg, nil
}

// SetConfig validates and persists the vault configuration, creating the
// comments directory and an empty index when absent. Nothing is persisted
// on validation failure.
func (s *Store) SetConfig(vaultPath, commentFolder string) (*models.VaultConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vaultPath = strings.TrimSpace(vaultPath)
	if vaultPath == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "vaultPath is required")
	}
	info, err := os.Stat(vaultPath)
	if err != nil || !info.IsDir() {
		return nil, apperr.New(apperr.CodePathNotFound, "vault path does not exist: %s", vaultPath)
	}

	folder := strings.TrimSpace(commentFolder)
	if folder == "" {
		folder = vaultconfig.DefaultCommentFolder
	}
	if filepath.Base(folder) != folder || folder == "." || folder == ".." {
		return nil, apperr.New(apperr.CodeInvalidInput, "commentFolder must be a plain folder name: %q", commentFolder)
	}

	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("threadstore: resolve vault path: %w", err)
	}
	dir := filepath.Join(abs, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("threadstore: create comments dir: %w", err)
	}
	files, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	if !files.Exists(index.Filename) {
		if err := s.writeIndex(files, index.Decode(nil)); err != nil {
			return nil, err
		}
	}

	cfg := &models.VaultConfig{VaultPath: abs, CommentFolder: folder}
	if err := s.cfgs.Save(cfg); err != nil {
		return nil, err
	}
	s.cfg, s.files = cfg, files

	select {
	case s.changes <- dir:
	default:
	}

	out := *cfg
	return &out, nil
}

// HasComments is a pure index lookup. It defaults to false on any failure:
// host unconfigured, index unreadable, URL not indexed.
func (s *Store) HasComments(rawURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return false
	}
	e, ok := s.readIndex(files).Lookup(urlnorm.Normalize(rawURL))
	return ok && e.HasComments
}

// GetThread resolves a URL through the index and loads its thread, or nil
// when the URL is not indexed. An unreadable backing file also surfaces as
// nil; repair is GetAllThreads' job.
func (s *Store) GetThread(rawURL string) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return nil, err
	}
	e, ok := s.readIndex(files).Lookup(urlnorm.Normalize(rawURL))
	if !ok {
		return nil, nil
	}
	th, err := s.loadThread(files, e.Filename)
	if err != nil {
		s.logger.Debug("threadstore: thread file unreadable",
			slog.String("filename", e.Filename),
			slog.String("error", err.Error()))
		return nil, nil
	}
	return th, nil
}

// AppendComment looks up or creates the thread for a URL, merges metadata,
// appends a comment stamped with the current time, and persists file and
// index. The returned thread is rebuilt from the written bytes so comment
// ids always match what a later parse of the file yields.
func (s *Store) AppendComment(rawURL, body string, meta *models.ThreadMetadata) (*models.Thread, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "comment body is empty")
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "url is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return nil, err
	}

	key := urlnorm.Normalize(rawURL)
	ix := s.readIndex(files)

	var th *models.Thread
	var filename string
	if e, ok := ix.Lookup(key); ok {
		filename = e.Filename
		loaded, loadErr := s.loadThread(files, filename)
		if loadErr != nil {
			// Backing file vanished or is unreadable; recreate it in place.
			s.logger.Warn("threadstore: recreating thread file",
				slog.String("filename", filename),
				slog.String("error", loadErr.Error()))
			th = &models.Thread{ID: key, URL: rawURL, CreatedAt: time.Now()}
		} else {
			th = loaded
		}
	} else {
		title := ""
		if meta != nil {
			title = meta.Title
		}
		filename = allocateFilename(files, rawURL, title)
		th = &models.Thread{ID: key, URL: rawURL, CreatedAt: time.Now()}
	}

	if meta != nil {
		if v := strings.TrimSpace(meta.Title); v != "" {
			th.Title = v
		}
		if v := strings.TrimSpace(meta.FaviconURL); v != "" {
			th.FaviconURL = v
		}
		if v := strings.TrimSpace(meta.PreviewImageURL); v != "" {
			th.PreviewImageURL = v
		}
	}

	now := time.Now()
	th.Comments = append(th.Comments, models.Comment{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Body:      body,
		CreatedAt: now,
	})
	th.UpdatedAt = now

	content := serializeThread(th)
	if err := files.Write(filename, content); err != nil {
		return nil, err
	}
	final := buildThread(filename, content, now)

	ix.Upsert(key, models.IndexEntry{Filename: filename, HasComments: true})
	if err := s.writeIndex(files, ix); err != nil {
		s.logger.Warn("threadstore: index persist failed", slog.String("error", err.Error()))
	}
	return final, nil
}

// DeleteComment removes one comment from a thread. The now-empty thread is
// still persisted with hasComments=false; full thread deletion is the
// caller's explicit follow-up via DeleteThread.
func (s *Store) DeleteComment(rawURL, commentID string) (*models.Thread, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "url is required")
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "commentId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return nil, err
	}

	key := urlnorm.Normalize(rawURL)
	ix := s.readIndex(files)
	e, ok := ix.Lookup(key)
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "no thread for url: %s", rawURL)
	}
	th, err := s.loadThread(files, e.Filename)
	if err != nil {
		return nil, apperr.New(apperr.CodeNotFound, "thread file missing: %s", e.Filename)
	}

	at := -1
	for i, c := range th.Comments {
		if c.ID == commentID {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, apperr.New(apperr.CodeNotFound, "comment not found: %s", commentID)
	}
	th.Comments = append(th.Comments[:at], th.Comments[at+1:]...)
	now := time.Now()
	th.UpdatedAt = now

	content := serializeThread(th)
	if err := files.Write(e.Filename, content); err != nil {
		return nil, err
	}
	final := buildThread(e.Filename, content, now)

	ix.Upsert(key, models.IndexEntry{Filename: e.Filename, HasComments: len(final.Comments) > 0})
	if err := s.writeIndex(files, ix); err != nil {
		s.logger.Warn("threadstore: index persist failed", slog.String("error", err.Error()))
	}
	return final, nil
}

// DeleteThread removes the backing file and index entry. Deletion is
// idempotent: an absent thread is a successful no-op.
func (s *Store) DeleteThread(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return apperr.New(apperr.CodeInvalidInput, "url is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.provider()
	if err != nil {
		return err
	}

	key := urlnorm.Normalize(rawURL)
	ix := s.readIndex(files)
	e, ok := ix.Lookup(key)
	if !ok {
		return nil
	}
	if err := files.Delete(e.Filename); err != nil {
		return err
	}
	ix.Remove(key)
	if err := s.writeIndex(files, ix); err != nil {
		s.logger.Warn("threadstore: index persist failed", slog.String("error", err.Error()))
	}
	return nil
}

// readIndex loads the side index, degrading to empty when the file is
// missing or corrupt.
func (s *Store) readIndex(files storage.Provider) *index.Index {
	data, err := files.Read(index.Filename)
	if err != nil {
		return index.Decode(nil)
	}
	return index.Decode(data)
}

// writeIndex rewrites the whole index file.
func (s *Store) writeIndex(files storage.Provider, ix *index.Index) error {
	data, err := ix.Encode()
	if err != nil {
		return err
	}
	return files.Write(index.Filename, data)
}

// loadThread reads and parses one backing file.
func (s *Store) loadThread(files storage.Provider, filename string) (*models.Thread, error) {
	data, err := files.Read(filename)
	if err != nil {
		return nil, err
	}
	var mod time.Time
	if meta, statErr := files.Stat(filename); statErr == nil {
		mod = meta.ModTime
	}
	return buildThread(filename, data, mod), nil
}

// buildThread recovers a Thread from file content. Every field degrades
// gracefully: a missing url synthesizes a pseudo-URL from the filename, a
// missing title falls back to the filename stem, and timestamps fall back
// to the file's modification time.
func buildThread(filename string, data []byte, modTime time.Time) *models.Thread {
	fm, body := markdown.ParseFrontmatter(string(data))

	rawURL := markdown.CleanValue(fm.Get("url"))
	if rawURL == "" {
		rawURL = "jot://" + strings.TrimSuffix(filename, ".md")
	}
	title := markdown.CleanValue(fm.Get("title"))
	if title == "" {
		title = strings.TrimSuffix(filename, ".md")
	}

	comments := markdown.ParseComments(body, modTime)

	created, ok := markdown.ParseDate(markdown.CleanValue(fm.Get("created")))
	if !ok {
		if len(comments) > 0 {
			created = comments[0].CreatedAt
		} else {
			created = modTime
		}
	}
	updated, ok := markdown.ParseDate(markdown.CleanValue(fm.Get("updated")))
	if !ok {
		updated = modTime
	}

	return &models.Thread{
		ID:              urlnorm.Normalize(rawURL),
		URL:             rawURL,
		Title:           title,
		FaviconURL:      markdown.CleanValue(fm.Get("favicon")),
		PreviewImageURL: markdown.CleanValue(fm.Get("preview")),
		CreatedAt:       created,
		UpdatedAt:       updated,
		Comments:        comments,
	}
}

// serializeThread renders a thread to its markdown file form. Frontmatter
// field order is fixed so rewrites are deterministic.
func serializeThread(th *models.Thread) []byte {
	fm := markdown.Frontmatter{
		{Key: "url", Value: th.URL},
		{Key: "title", Value: th.Title},
		{Key: "favicon", Value: th.FaviconURL},
		{Key: "preview", Value: th.PreviewImageURL},
		{Key: "created", Value: markdown.FormatHeadingTime(th.CreatedAt)},
		{Key: "updated", Value: markdown.FormatHeadingTime(th.UpdatedAt)},
	}
	return []byte(markdown.SerializeFrontmatter(fm, markdown.SerializeComments(th.Comments)))
}
