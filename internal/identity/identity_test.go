package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureKeepsExisting(t *testing.T) {
	id, minted := Ensure("abc123")
	assert.Equal(t, "abc123", id)
	assert.False(t, minted)
}

func TestEnsureMintsWhenEmpty(t *testing.T) {
	id, minted := Ensure("")
	require.NotEmpty(t, id)
	assert.True(t, minted)
	assert.Len(t, id, userIDLength)
}

func TestEnsureMintsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, _ := Ensure("")
		require.False(t, seen[id], "duplicate identifier minted: %s", id)
		seen[id] = true
	}
}

func TestNewTokenLength(t *testing.T) {
	tok := NewToken()
	assert.Len(t, tok, tokenLength)
	assert.NotEqual(t, tok, NewToken())
}
