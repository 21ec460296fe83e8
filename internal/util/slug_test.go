package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Walking in Grace", "walking-in-grace"},
		{"Hope! (Rising)", "hope-rising"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"Grace & Truth", "grace-truth"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
