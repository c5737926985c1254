// Package markdown converts thread files to and from structured
// frontmatter and comment sections. Parsing is deliberately lenient:
// vault files are shared with the user and may be hand-edited, so a
// malformed header degrades to "no frontmatter" instead of failing.
package markdown

import (
	"regexp"
	"strings"
)

// Field is one frontmatter key/value pair.
type Field struct {
	Key   string
	Value string
}

// Frontmatter is an ordered list of fields. Insertion order is preserved on
// write so serialization is deterministic per call.
type Frontmatter []Field

// Get returns the value for key, or "" when absent.
func (fm Frontmatter) Get(key string) string {
	for _, f := range fm {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Set replaces the value for key, appending the field when absent.
func (fm Frontmatter) Set(key, value string) Frontmatter {
	for i, f := range fm {
		if f.Key == key {
			fm[i].Value = value
			return fm
		}
	}
	return append(fm, Field{Key: key, Value: value})
}

// fenceStrategies are tried in order of strictness; the first match wins.
// Group 1 captures the frontmatter block, group 2 (when present) the body.
var fenceStrategies = []*regexp.Regexp{
	// Closing fence followed by a newline and the body.
	regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n(.*)\z`),
	// Closing fence at end of file, possibly without a trailing newline.
	regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\s*\z`),
}

// ParseFrontmatter splits text into frontmatter fields and body. It never
// fails: when no fence strategy matches, the whole text is body.
func ParseFrontmatter(text string) (Frontmatter, string) {
	for _, re := range fenceStrategies {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		body := ""
		if len(m) > 2 {
			body = m[2]
		}
		return parseFields(m[1]), body
	}
	return nil, text
}

// parseFields parses one "key: value" pair per line, splitting on the first
// colon. Malformed lines are skipped rather than aborting the parse.
func parseFields(block string) Frontmatter {
	var fm Frontmatter
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		fm = append(fm, Field{Key: key, Value: unquote(strings.TrimSpace(line[idx+1:]))})
	}
	return fm
}

// unquote strips a single matching pair of surrounding quotes and unescapes
// embedded \" and \'.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	return s
}

// SerializeFrontmatter emits the fenced header followed by body verbatim.
// Empty values are omitted; values containing a colon or quote are wrapped
// in double quotes with embedded double quotes escaped.
func SerializeFrontmatter(fm Frontmatter, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fm {
		if f.Value == "" {
			continue
		}
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(quoteIfNeeded(f.Value))
		b.WriteByte('\n')
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}

func quoteIfNeeded(v string) string {
	if !strings.ContainsAny(v, `:"'`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// placeholderValues lists strings humans and other tools write to mean
// "no value". They are normalized to empty at the frontmatter boundary.
var placeholderValues = map[string]struct{}{
	"n/a":       {},
	"na":        {},
	"none":      {},
	"null":      {},
	"nil":       {},
	"undefined": {},
	"-":         {},
}

// CleanValue trims s and maps known placeholder strings to "".
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := placeholderValues[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}
