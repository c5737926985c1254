package threadstore

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderjmontague/jot-sub000/internal/markdown"
	"github.com/alexanderjmontague/jot-sub000/internal/storage"
)

const slugMax = 50

// allocateFilename derives a stable, collision-resistant filename for a
// thread from its URL and title. Re-deriving for the same URL reuses the
// existing file; a base-name collision with an unrelated URL gets a short
// hash suffix. The allocator never fails the caller: anything unexpected
// falls back to a timestamp-keyed name.
func allocateFilename(files storage.Provider, rawURL, title string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return timestampFilename()
	}
	domain := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	slug := slugify(title)
	if slug == "" {
		slug = slugify(u.Path)
	}
	if slug == "" {
		slug = "page"
	}

	candidate := domain + "-" + slug + ".md"
	if !files.Exists(candidate) {
		return candidate
	}

	// The base name is taken: reuse it only if the file already belongs to
	// this URL, otherwise suffix with a hash of the URL.
	if data, readErr := files.Read(candidate); readErr == nil {
		fm, _ := markdown.ParseFrontmatter(string(data))
		if markdown.CleanValue(fm.Get("url")) == strings.TrimSpace(rawURL) {
			return candidate
		}
	}
	return domain + "-" + slug + "-" + urlSuffix(rawURL) + ".md"
}

// slugify lowercases s, collapses runs of non-alphanumeric characters to
// single hyphens, trims boundary hyphens, and caps the result at slugMax.
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
		if b.Len() >= slugMax {
			break
		}
	}
	out := b.String()
	if len(out) > slugMax {
		out = out[:slugMax]
	}
	return strings.Trim(out, "-")
}

// urlSuffix returns a 6-character collision suffix derived from a fast
// non-cryptographic hash of the URL, with base64's +, / and = replaced by
// filename-safe characters.
func urlSuffix(rawURL string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rawURL))
	enc := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if len(enc) > 6 {
		enc = enc[:6]
	}
	return strings.NewReplacer("+", "-", "/", "_", "=", "0").Replace(enc)
}

func timestampFilename() string {
	return fmt.Sprintf("jot-%d.md", time.Now().UnixMilli())
}
