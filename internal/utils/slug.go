package utils

import "strings"

// Slugify derives a URL-safe identifier from a display name: lowercase,
// non-alphanumeric runs collapse to single hyphens, leading/trailing
// hyphens trimmed. Deterministic, so the same name always yields the
// same slug.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
