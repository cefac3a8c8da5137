package validation

import (
	"fmt"
	"strings"
	"time"
)

// ParseFlexibleDate tries to parse a date string using multiple common formats
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.DateOnly, // YYYY-MM-DD
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05", // timestamp without zone
		"2006-01-02 15:04:05",
		"01/02/2006", // MM/DD/YYYY
		"2006/01/02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// DatePart returns the calendar date portion of a date or timestamp string,
// the text before any "T". Values stored as "2026-01-01T00:00:00+00:00" are
// shown and edited as "2026-01-01".
func DatePart(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}
