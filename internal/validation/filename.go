package validation

import (
	"path"
	"strings"
)

// SanitizeFilename strips directory components and characters that are unsafe
// for storage backends. The result contains only ASCII letters, digits, dot,
// dash and underscore, and never a path separator. Returns "" when nothing
// safe is left of the input.
func SanitizeFilename(name string) string {
	// Windows-style separators count as separators too
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	// A name of only dots ("..") must not survive as a traversal token
	return strings.Trim(b.String(), "._")
}
