package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFileType(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"notes.txt", true},
		{"report.pdf", true},
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"anim.gif", true},
		{"PHOTO.JPG", true},
		{"archive.tar.gz", false},
		{"malware.exe", false},
		{"malware.txt.exe", false},
		{"noextension", false},
		{"", false},
		{".txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedFileType(tt.filename))
		})
	}
}
