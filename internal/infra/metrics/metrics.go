package metrics

import "strings"

// norm lowercases and trims label values so callers cannot explode cardinality
// with accidental variants of the same label.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
