package validation

import (
	"strings"
)

// allowedExtensions is the upload allow-list. Matching is against the text
// after the last dot, case-insensitive; a name without a dot never matches.
var allowedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// AllowedFileType reports whether the filename's extension is on the upload
// allow-list.
func AllowedFileType(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}
