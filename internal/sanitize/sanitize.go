// Package sanitize defensively bounds untrusted values before they are
// logged, audited, or echoed back to a caller. It protects the record
// path only — operation handlers always receive the original values.
package sanitize

import (
	"sort"
	"strings"
)

const (
	// MaxStringLen is the longest string kept before truncation.
	MaxStringLen = 10000
	// MaxListLen is the most sequence elements kept.
	MaxListLen = 100
	// MaxMapLen is the most mapping entries kept.
	MaxMapLen = 50

	truncationMarker = "... [truncated]"
)

// Value bounds a single value: strings have NUL and CR stripped,
// newlines collapsed to spaces, and are truncated to MaxStringLen;
// slices are cut to MaxListLen and maps to MaxMapLen, recursing into
// elements and values (keys are preserved verbatim). Cell blocks
// ([][]any, the shape typed tool inputs arrive in) are bounded the
// same way as any other sequence. Oversized maps keep the first
// MaxMapLen keys in sorted order so the summary is deterministic.
// Everything else passes through untouched. Value is idempotent.
func Value(v any) any {
	switch x := v.(type) {
	case string:
		return cleanString(x)
	case []any:
		n := len(x)
		if n > MaxListLen {
			n = MaxListLen
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = Value(x[i])
		}
		return out
	case [][]any:
		n := len(x)
		if n > MaxListLen {
			n = MaxListLen
		}
		out := make([][]any, n)
		for i := 0; i < n; i++ {
			out[i], _ = Value(x[i]).([]any)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > MaxMapLen {
			keys = keys[:MaxMapLen]
		}
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			out[k] = Value(x[k])
		}
		return out
	default:
		return v
	}
}

// Arguments sanitizes each value of an argument map, preserving keys.
func Arguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out, _ := Value(args).(map[string]any)
	return out
}

func cleanString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > MaxStringLen {
		s = s[:MaxStringLen] + truncationMarker
	}
	return s
}
