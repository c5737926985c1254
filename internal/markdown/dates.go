package markdown

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// headingLayout is the format written for comment headings. It is the
// strictest parse strategy, so serialized threads always round-trip.
const headingLayout = "2006-01-02 15:04"

// dateStrategy attempts one heading format. Strategies are pure and tried
// in order; the first success wins.
type dateStrategy struct {
	name  string
	parse func(string) (time.Time, bool)
}

func layoutStrategy(name, layout string) dateStrategy {
	return dateStrategy{name: name, parse: func(s string) (time.Time, bool) {
		t, err := time.ParseInLocation(layout, s, time.Local)
		return t, err == nil
	}}
}

var dateStrategies = []dateStrategy{
	layoutStrategy("datetime", headingLayout),
	layoutStrategy("datetime-t", "2006-01-02T15:04"),
	layoutStrategy("date", "2006-01-02"),
	layoutStrategy("us-date", "01/02/2006"),
	{name: "freetext", parse: func(s string) (time.Time, bool) {
		t, err := dateparse.ParseLocal(s)
		return t, err == nil
	}},
}

// ParseDate parses s using the ordered heading date strategies. The second
// return value is false when no strategy matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, st := range dateStrategies {
		if t, ok := st.parse(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatHeadingTime renders t at minute precision for a comment heading.
func FormatHeadingTime(t time.Time) string {
	return t.Format(headingLayout)
}
