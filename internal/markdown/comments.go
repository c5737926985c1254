package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
)

var headingRe = regexp.MustCompile(`(?m)^###[ \t]+(.+)$`)

// ParseComments extracts the ordered comment sections from a markdown body.
// Each level-3 heading introduces one comment; its text runs to the next
// heading or end of body. Sections whose trimmed text is empty are skipped.
//
// Headings that do not parse as a date fall back to fileModified (or the
// current time when zero) minus one second per undated comment in file
// order. Duplicate timestamps within the same file are likewise nudged
// back one second at a time so ids stay unique within the thread.
func ParseComments(body string, fileModified time.Time) []models.Comment {
	locs := headingRe.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return nil
	}

	base := fileModified
	if base.IsZero() {
		base = time.Now()
	}

	fallbackIndex := 0
	seen := make(map[string]struct{}, len(locs))
	var out []models.Comment

	for i, loc := range locs {
		heading := strings.TrimSpace(body[loc[2]:loc[3]])

		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(body[loc[1]:end])
		if text == "" {
			continue
		}

		ts, ok := ParseDate(heading)
		if !ok {
			ts = base.Add(-time.Duration(fallbackIndex) * time.Second)
			fallbackIndex++
		}
		for {
			id := strconv.FormatInt(ts.UnixMilli(), 10)
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				out = append(out, models.Comment{ID: id, Body: text, CreatedAt: ts})
				break
			}
			ts = ts.Add(-time.Second)
		}
	}
	return out
}

// SerializeComments renders comments under a "## Notes" heading with one
// minute-precision timestamp heading per comment, in array order.
func SerializeComments(comments []models.Comment) string {
	var b strings.Builder
	b.WriteString("\n## Notes\n")
	for _, c := range comments {
		b.WriteString("\n### ")
		b.WriteString(FormatHeadingTime(c.CreatedAt))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(c.Body))
		b.WriteByte('\n')
	}
	return b.String()
}
