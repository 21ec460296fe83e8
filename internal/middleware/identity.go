package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hastingtx/backend/internal/identity"
)

const (
	// IdentityCookie holds the anonymous user identifier for ~1 year.
	IdentityCookie = "hastingtx_uid"

	identityLocal = "user_identifier"
)

// EnsureIdentity guarantees every request in the devotional area carries a
// stable anonymous identifier, minting one on first contact.
func EnsureIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, minted := identity.Ensure(c.Cookies(IdentityCookie))
		if minted {
			setIdentityCookie(c, id)
		}
		c.Locals(identityLocal, id)
		return c.Next()
	}
}

// GetUserIdentifier returns the anonymous identifier bound to this request.
func GetUserIdentifier(c *fiber.Ctx) string {
	if id, ok := c.Locals(identityLocal).(string); ok {
		return id
	}
	return ""
}

// RebindIdentity overwrites the request's identifier, used when a sync link
// teleports a browser onto an existing identity.
func RebindIdentity(c *fiber.Ctx, id string) {
	setIdentityCookie(c, id)
	c.Locals(identityLocal, id)
}

func setIdentityCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     IdentityCookie,
		Value:    id,
		Expires:  time.Now().AddDate(1, 0, 0),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
