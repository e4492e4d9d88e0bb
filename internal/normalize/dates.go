package normalize

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	leadingDatePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\b`)
)

// ParseDate extracts the first YYYY-MM-DD token anywhere in the string.
// Full ISO timestamps are accepted; only the date part is used.
func ParseDate(value string) (time.Time, bool) {
	match := isoDatePattern.FindStringSubmatch(value)
	if match == nil {
		return time.Time{}, false
	}
	return parseDay(match[1])
}

// LeadingDate extracts a YYYY-MM-DD token only when it starts the
// string, the convention used for date-prefixed filenames and titles.
func LeadingDate(value string) (time.Time, bool) {
	match := leadingDatePattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return time.Time{}, false
	}
	return parseDay(match[1])
}

func parseDay(value string) (time.Time, bool) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
