// Package strings holds small helpers for normalising configured string lists.
package strings

import (
	"strings"
)

// DedupeFunc maps every value through normalize and keeps the first
// occurrence of each non-empty result, preserving order. A nil or empty input
// is returned unchanged.
func DedupeFunc(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// DedupeAndTrim trims whitespace, drops blanks and duplicates.
func DedupeAndTrim(values []string) []string {
	return DedupeFunc(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with case folding, for operation names
// and other identifiers compared case-insensitively.
func DedupeAndTrimLower(values []string) []string {
	return DedupeFunc(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// SplitList splits a comma separated list, as used in environment overrides,
// and applies DedupeAndTrim.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(s, ","))
}
