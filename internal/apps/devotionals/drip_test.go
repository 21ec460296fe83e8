package devotionals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	in := time.Date(2025, 3, 14, 17, 42, 3, 999, loc)
	got := midnight(in)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}
