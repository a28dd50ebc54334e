// Package dateutil formats the dates found in NFe documents.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultTimestampFormat is how issue and receipt timestamps are printed.
const DefaultTimestampFormat = "DD/MM/YYYY HH:mm:ss"

// isoDateLength is len("YYYY-MM-DD").
const isoDateLength = 10

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching; matching is case-sensitive
// so "MM" (month) and "mm" (minute) do not collide.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":       "YYYY-MM-DD",
	"br":        "DD/MM/YYYY",
	"br-time":   DefaultTimestampFormat,
	"iso-time":  "YYYY-MM-DD HH:mm:ss",
	"date-only": "DD/MM/YYYY",
}

// timestampLayouts are the shapes dhEmi, dEmi and dhRecbto take in practice.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss. A preset name
// (case-insensitive) is expanded first.
// Use brackets to escape literal text: [Emitido em] preserves the words.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// ReformatISO turns "YYYY-MM-DD" into "DD/MM/YYYY" by position.
// The value is not calendar-checked: characters 1-4 are the year, 6-7 the
// month and 9-10 the day. Values shorter than ten characters (after trimming
// whitespace) are returned unchanged.
func ReformatISO(value string) string {
	s := strings.TrimSpace(value)
	if len(s) < isoDateLength {
		return value
	}
	return s[8:10] + "/" + s[5:7] + "/" + s[0:4]
}

// FormatTimestamp renders an NFe timestamp with goLayout, keeping the
// wall-clock time of the offset it was issued in. Unparseable values fall
// back to ReformatISO so a malformed timestamp still prints its date.
func FormatTimestamp(value, goLayout string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(goLayout)
		}
	}
	return ReformatISO(s)
}
