package core

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Suggest returns the closest match of `word` among `options`, or "" when nothing is close enough.
// Options are scored with difflib's similarity ratio; ties go to the earlier option.
func Suggest(word string, options []string) string {
	const cutoff = 0.6

	var (
		best  string
		score float64
	)
	chars := strings.Split(word, "")
	for _, opt := range options {
		r := difflib.NewMatcher(chars, strings.Split(opt, "")).Ratio()
		if r >= cutoff && r > score {
			best, score = opt, r
		}
	}
	return best
}

// UnknownChoiceError reports an unsupported value for `field`, with a suggestion when one is close.
func UnknownChoiceError(field, got string, options []string) error {
	msg := "unknown value " + strconv.Quote(got)
	if s := Suggest(got, options); s != "" {
		msg += ", did you mean " + strconv.Quote(s) + "?"
	} else if len(options) > 0 {
		msg += " (choose one of: " + strings.Join(options, ", ") + ")"
	}
	return NewValidationError(errors.New(field+": "+msg), FieldError{Field: field, Error: msg})
}

// ID identifies a course or an assignment. The server decides its shape:
// numbers and strings (numeric or not, e.g. UUIDs) are both kept as text.
type ID string

// ParseID reads an id typed by a user.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/?# \t") {
		return "", errors.Errorf("invalid id %q", s)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

// PathSegment returns the id escaped for use in a URL path.
func (id ID) PathSegment() string { return url.PathEscape(string(id)) }

// MarshalJSON sends integer ids back as JSON numbers, anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrapf(err, "decoding id %s", data)
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.Errorf("decoding id %s: want a number or a string", data)
		}
		*id = ID(n.String())
	}
	return nil
}

// CompareIDs orders integer ids numerically and falls back to text order otherwise.
func CompareIDs(a, b ID) int {
	x, errX := strconv.ParseInt(string(a), 10, 64)
	y, errY := strconv.ParseInt(string(b), 10, 64)
	if errX == nil && errY == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(string(a), string(b))
}
