package normalize

import "strings"

// Email returns a normalized form of an email address suitable for storage
// and lookups: surrounding whitespace trimmed and the address lower-cased.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Username trims surrounding whitespace. Usernames keep their case; the
// search query matches case-insensitively instead.
func Username(u string) string {
	return strings.TrimSpace(u)
}
