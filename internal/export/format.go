package export

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/stockroom/internal/report"
)

const ellipsis = "..."

// truncate shortens s to at most n runes followed by an ellipsis marker.
// Strings that already fit are returned unchanged.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + ellipsis
}

// letterCode returns the upper-cased first letter of s, e.g. "high" -> "H".
func letterCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// requesterName substitutes the unknown bucket for an empty name.
func requesterName(name string) string {
	if strings.TrimSpace(name) == "" {
		return report.UnknownRequester
	}
	return name
}

// shortDate formats t as month abbreviation and day, e.g. "Jan 2".
func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2")
}

// isoDate formats t as YYYY-MM-DD.
func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
