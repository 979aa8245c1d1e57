package naming

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFragment is wrapped by every [FragmentError].
var ErrMalformedFragment = errors.New("malformed date fragment")

// FragmentError reports a captured date field that cannot be normalized.
// It fails the file being processed, not the batch.
type FragmentError struct {
	Field  string // "year", "month" or "day".
	Value  string
	Reason string
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("malformed %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FragmentError) Unwrap() error { return ErrMalformedFragment }

// NormalizeYear returns a four-digit year. Four digits pass through, one or
// two digits are taken as 20xx. Two-digit years before 2000 cannot be
// expressed; that is a known limitation of the shorthand.
func NormalizeYear(s string) (string, error) {
	t := strings.TrimSpace(s)
	if !isDigits(t) {
		return "", &FragmentError{Field: "year", Value: s, Reason: "not numeric"}
	}
	switch len(t) {
	case 4:
		return t, nil
	case 1, 2:
		return "20" + zeroPad(t), nil
	default:
		return "", &FragmentError{Field: "year", Value: s, Reason: "want 2 or 4 digits"}
	}
}

// NormalizeDayOrMonth trims s and zero-pads it to two digits.
func NormalizeDayOrMonth(s string) (string, error) {
	return normalizeField("day or month", s)
}

func normalizeField(field, s string) (string, error) {
	t := strings.TrimSpace(s)
	if !isDigits(t) {
		return "", &FragmentError{Field: field, Value: s, Reason: "not numeric"}
	}
	if len(t) > 2 {
		return "", &FragmentError{Field: field, Value: s, Reason: "more than 2 digits"}
	}
	return zeroPad(t), nil
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
