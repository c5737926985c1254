package urlnorm

import "testing"

func TestNormalize_Invariance(t *testing.T) {
	a := Normalize("https://www.example.com/a?b=2&a=1#frag")
	b := Normalize("https://example.com/a/?a=1&b=2")
	if a != b {
		t.Errorf("normalized forms differ: %q vs %q", a, b)
	}
	if a != "https://example.com/a?a=1&b=2" {
		t.Errorf("normalized = %q", a)
	}
}

func TestNormalize_Cases(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fragment stripped", "https://example.com/page#section", "https://example.com/page"},
		{"www stripped", "https://www.example.com/", "https://example.com/"},
		{"root slash kept", "https://example.com/", "https://example.com/"},
		{"trailing slash trimmed", "https://example.com/a/b/", "https://example.com/a/b"},
		{"tracking params stripped", "https://example.com/p?utm_source=x&utm_medium=y&id=7", "https://example.com/p?id=7"},
		{"fbclid stripped", "https://example.com/p?fbclid=abc", "https://example.com/p"},
		{"query sorted", "https://example.com/p?z=1&a=2", "https://example.com/p?a=2&z=1"},
		{"host lowercased", "https://Example.COM/p", "https://example.com/p"},
		{"whitespace trimmed", "  https://example.com/p  ", "https://example.com/p"},
		{"non-url passthrough", "not a url", "not a url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "https://www.example.com/a/?b=2&a=1&utm_source=mail#x"
	once := Normalize(in)
	twice := Normalize(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
