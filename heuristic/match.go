package heuristic

import (
	"strings"
)

// MatchOptions configures exact text comparison
type MatchOptions struct {
	// CaseInsensitive determines if the comparison should ignore case
	CaseInsensitive bool
	// TrimWhitespace determines if leading and trailing whitespace should be trimmed
	TrimWhitespace bool
}

// Normalize applies opts to s so equal keys mean matching texts
func Normalize(s string, opts MatchOptions) string {
	if opts.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	if opts.CaseInsensitive {
		s = strings.ToLower(s)
	}
	return s
}

// Match reports whether a and b are equal under opts
func Match(a, b string, opts MatchOptions) bool {
	return Normalize(a, opts) == Normalize(b, opts)
}
