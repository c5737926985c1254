// Package urlnorm canonicalizes page URLs so that equivalent addresses
// resolve to the same thread key.
package urlnorm

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during normalization. They
// identify campaigns and click sources, not page content.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"fbclid":       {},
	"gclid":        {},
	"dclid":        {},
	"msclkid":      {},
	"mc_cid":       {},
	"mc_eid":       {},
	"igshid":       {},
	"ref":          {},
	"ref_src":      {},
}

// Normalize returns the canonical string form of raw: fragment removed,
// tracking parameters stripped, remaining query sorted, leading "www."
// host label dropped, and a single trailing slash trimmed from non-root
// paths. Unparseable input is returned trimmed but otherwise untouched so
// lookups stay deterministic.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if _, ok := trackingParams[strings.ToLower(k)]; ok {
				q.Del(k)
			}
		}
		// Encode sorts keys lexicographically.
		u.RawQuery = q.Encode()
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	return u.String()
}
