package threadstore

import (
	"strings"
	"testing"

	"github.com/alexanderjmontague/jot-sub000/internal/storage"
)

func testProvider(t *testing.T) storage.Provider {
	t.Helper()
	files, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func TestAllocateFilenameFromTitle(t *testing.T) {
	files := testProvider(t)
	name := allocateFilename(files, "https://www.example.com/posts/1", "Hello, World!")
	if name != "example.com-hello-world.md" {
		t.Fatalf("name = %q", name)
	}
}

func TestAllocateFilenameFallsBackToPath(t *testing.T) {
	files := testProvider(t)
	name := allocateFilename(files, "https://example.com/posts/go-generics", "")
	if name != "example.com-posts-go-generics.md" {
		t.Fatalf("name = %q", name)
	}
}

func TestAllocateFilenameBarePage(t *testing.T) {
	files := testProvider(t)
	name := allocateFilename(files, "https://example.com/", "")
	if name != "example.com-page.md" {
		t.Fatalf("name = %q", name)
	}
}

func TestAllocateFilenameReusesOwnFile(t *testing.T) {
	files := testProvider(t)
	url := "https://example.com/posts/1"

	first := allocateFilename(files, url, "Post")
	content := "---\nurl: " + url + "\ntitle: Post\n---\n\n## Notes\n"
	if err := files.Write(first, []byte(content)); err != nil {
		t.Fatal(err)
	}

	second := allocateFilename(files, url, "Post")
	if second != first {
		t.Fatalf("expected reuse of %q, got %q", first, second)
	}
}

func TestAllocateFilenameSuffixesCollision(t *testing.T) {
	files := testProvider(t)

	first := allocateFilename(files, "https://example.com/a/post", "Post")
	if err := files.Write(first, []byte("---\nurl: https://example.com/a/post\n---\n")); err != nil {
		t.Fatal(err)
	}

	second := allocateFilename(files, "https://example.com/b/post", "Post")
	if second == first {
		t.Fatal("collision not resolved")
	}
	if !strings.HasPrefix(second, "example.com-post-") || !strings.HasSuffix(second, ".md") {
		t.Fatalf("unexpected collision name %q", second)
	}
}

func TestAllocateFilenameUnparseableURL(t *testing.T) {
	files := testProvider(t)
	name := allocateFilename(files, "not a url", "")
	if !strings.HasPrefix(name, "jot-") || !strings.HasSuffix(name, ".md") {
		t.Fatalf("expected timestamp fallback, got %q", name)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello, World!", "hello-world"},
		{"  --Already--Sluggy--  ", "already-sluggy"},
		{"ALLCAPS", "allcaps"},
		{"/posts/go-generics/", "posts-go-generics"},
		{"", ""},
		{"!!!", ""},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestURLSuffixStableAndSafe(t *testing.T) {
	a := urlSuffix("https://example.com/a")
	b := urlSuffix("https://example.com/b")
	if a == b {
		t.Fatal("different urls share a suffix")
	}
	if a != urlSuffix("https://example.com/a") {
		t.Fatal("suffix not deterministic")
	}
	if len(a) != 6 || strings.ContainsAny(a, "+/=") {
		t.Fatalf("suffix %q not filename safe", a)
	}
}
