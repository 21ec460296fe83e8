package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	kl := New(1, 2)

	assert.True(t, kl.Allow("tts"))
	assert.True(t, kl.Allow("tts"))
	assert.False(t, kl.Allow("tts"))
}

func TestKeysAreIndependent(t *testing.T) {
	kl := New(1, 1)

	assert.True(t, kl.Allow("a"))
	assert.False(t, kl.Allow("a"))
	assert.True(t, kl.Allow("b"))
}
