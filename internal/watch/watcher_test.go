package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderjmontague/jot-sub000/internal/sse"
	"github.com/alexanderjmontague/jot-sub000/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcherReconcilesExternalFile(t *testing.T) {
	store, dir := testutil.TestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		Run(ctx, store, nil, testutil.Logger())
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)

	content := "---\nurl: https://example.com/ext\ntitle: External\n---\n\n## Notes\n\n### 2024-03-01 12:00\n\nadded outside the host\n"
	if err := os.WriteFile(filepath.Join(dir, "example.com-ext.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return store.HasComments("https://example.com/ext")
	}, "external file not adopted by watcher")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcherPublishesEvents(t *testing.T) {
	store, dir := testutil.TestStore(t)
	broker := sse.NewBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, store, broker, testutil.Logger())

	time.Sleep(100 * time.Millisecond)
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	if err := os.WriteFile(filepath.Join(dir, "example.com-new.md"), []byte("---\nurl: https://example.com/new\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "thread.") || !strings.Contains(s, "example.com-new.md") {
			t.Fatalf("unexpected event %q", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event published")
	}
}

func TestWatcherIgnoresHiddenAndForeignFiles(t *testing.T) {
	store, dir := testutil.TestStore(t)
	broker := sse.NewBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, store, broker, testutil.Logger())

	time.Sleep(100 * time.Millisecond)
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	if err := os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-ch:
		t.Fatalf("unexpected event for ignored file: %q", msg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherWaitsWhenUnconfigured(t *testing.T) {
	store := testutil.UnconfiguredStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, store, nil, testutil.Logger())
		close(done)
	}()

	// Configure after startup; the watcher must pick the directory up.
	time.Sleep(50 * time.Millisecond)
	vaultDir := t.TempDir()
	cfg, err := store.SetConfig(vaultDir, "jot")
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(cfg.VaultPath, cfg.CommentFolder)

	time.Sleep(100 * time.Millisecond)
	content := "---\nurl: https://example.com/late\n---\n\n## Notes\n\n### 2024-03-01 12:00\n\nhi\n"
	if err := os.WriteFile(filepath.Join(dir, "example.com-late.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return store.HasComments("https://example.com/late")
	}, "watcher did not arm after late configuration")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
