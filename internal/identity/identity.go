// Package identity mints the opaque identifiers that stand in for user
// accounts: per-browser anonymous IDs and the tokens mailed out for
// cross-device sync and unsubscribe links.
package identity

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// userIDLength gives ~126 bits of entropy with the default alphabet.
	userIDLength = 21
	// tokenLength gives ~190 bits; a sync token is a bearer credential.
	tokenLength = 32
)

// Ensure returns the existing identifier when present, otherwise mints a
// fresh one. The second return reports whether a new identifier was minted,
// so the caller knows to persist it back into its session mechanism.
func Ensure(existing string) (string, bool) {
	if existing != "" {
		return existing, false
	}
	return NewUserID(), true
}

// NewUserID mints an unguessable anonymous user identifier.
func NewUserID() string {
	return gonanoid.Must(userIDLength)
}

// NewToken mints an unguessable token for sync/unsubscribe links.
func NewToken() string {
	return gonanoid.Must(tokenLength)
}
