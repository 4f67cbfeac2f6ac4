package params

import "strings"

// NormalizeName reduces an arbitrary string to an identifier-safe
// fragment: every character outside [a-zA-Z0-9-] becomes a hyphen,
// leading and trailing hyphens are stripped, and the result is
// lowercased. Idempotent and total.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
