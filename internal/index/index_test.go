package index

import (
	"testing"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
)

func TestDecode_Tolerant(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"corrupt", []byte("{not json")},
		{"wrong shape", []byte(`[1,2,3]`)},
		{"null entries", []byte(`{"entries":null}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ix := Decode(tc.data)
			if ix.Len() != 0 {
				t.Errorf("len = %d, want 0", ix.Len())
			}
			if ix.Dirty() {
				t.Error("fresh index should not be dirty")
			}
			// Must remain usable.
			ix.Upsert("https://example.com", models.IndexEntry{Filename: "a.md", HasComments: true})
			if _, ok := ix.Lookup("https://example.com"); !ok {
				t.Error("lookup after upsert failed")
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ix := Decode(nil)
	ix.Upsert("https://example.com/a", models.IndexEntry{Filename: "example.com-a.md", HasComments: true})
	ix.Upsert("https://example.com/b", models.IndexEntry{Filename: "example.com-b.md"})

	data, err := ix.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Decode(data)
	if got.Len() != 2 {
		t.Fatalf("len = %d, want 2", got.Len())
	}
	e, ok := got.Lookup("https://example.com/a")
	if !ok || e.Filename != "example.com-a.md" || !e.HasComments {
		t.Errorf("entry = %+v, ok = %v", e, ok)
	}
}

func TestDirtyTracking(t *testing.T) {
	ix := Decode(nil)
	ix.Upsert("u", models.IndexEntry{Filename: "f.md"})
	data, _ := ix.Encode()

	ix = Decode(data)
	if ix.Dirty() {
		t.Error("decoded index should start clean")
	}
	// Identical upsert is a no-op.
	ix.Upsert("u", models.IndexEntry{Filename: "f.md"})
	if ix.Dirty() {
		t.Error("identical upsert should not dirty the index")
	}
	// Removing a missing key is a no-op.
	ix.Remove("absent")
	if ix.Dirty() {
		t.Error("removing absent key should not dirty the index")
	}
	ix.Remove("u")
	if !ix.Dirty() {
		t.Error("removal should dirty the index")
	}
	if _, ok := ix.Lookup("u"); ok {
		t.Error("entry should be gone")
	}
}

func TestURLs_Sorted(t *testing.T) {
	ix := Decode(nil)
	ix.Upsert("b", models.IndexEntry{Filename: "b.md"})
	ix.Upsert("a", models.IndexEntry{Filename: "a.md"})
	urls := ix.URLs()
	if len(urls) != 2 || urls[0] != "a" || urls[1] != "b" {
		t.Errorf("urls = %v", urls)
	}
}
