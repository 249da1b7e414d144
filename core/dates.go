package core

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date")

	// accepted wire formats, tried in order
	dateLayouts = []string{
		DateLayout,
		"2006-1-2",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		time.RFC1123, // Flask's default date rendering
		"Mon, 2 Jan 2006 15:04:05 MST",
	}
)

// ParseDate parses a calendar date and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidDate, "parsing %q", s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate rewrites any accepted date format as YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// CompareDates orders two wire dates by calendar value. Unparseable dates sort as the zero date.
func CompareDates(a, b string) int {
	ta, _ := ParseDate(a)
	tb, _ := ParseDate(b)
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}
