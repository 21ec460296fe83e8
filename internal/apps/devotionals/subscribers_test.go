package devotionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := normalizeEmail("  Reader@Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "reader@example.com", got)

	for _, bad := range []string{
		"",
		"no-at-sign",
		"@example.com",
		"reader@",
		"reader@nodot",
		"two words@example.com",
	} {
		_, err := normalizeEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, "input %q", bad)
	}
}
