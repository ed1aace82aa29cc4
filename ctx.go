package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// IdentityLocalsKey is where the guard middleware stores the current
// identity on the fiber context.
const IdentityLocalsKey = "auth_identity"

// WithContext sets the Identity in the given context
func WithContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// FromContext finds the identity from the context
func FromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}

// SetIdentity stores the identity on the request for downstream handlers
func SetIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(IdentityLocalsKey, identity)
}

// IdentityFrom reads the identity the guard middleware attached, if any
func IdentityFrom(c *fiber.Ctx) (*Identity, bool) {
	raw := c.Locals(IdentityLocalsKey)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(*Identity)
	return identity, ok
}
