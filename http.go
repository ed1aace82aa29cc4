package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RejectedRouteCookie carries the originally requested path across the
// login redirect so the flow can resume it.
const RejectedRouteCookie = "rejected_route"

const rejectedRouteTTL = 5 * time.Minute

// HTTPGuard binds guard decisions to fiber: protected routes redirect to
// the role's login page, authenticated visits to auth pages bounce to the
// role's landing page, and the rejected route travels in a short-lived
// cookie.
type HTTPGuard struct {
	guard  *Guard
	Logger Logger
}

func NewHTTPGuard(guard *Guard) *HTTPGuard {
	return &HTTPGuard{
		guard:  guard,
		Logger: defLogger{},
	}
}

// Routes returns the guard's navigation targets
func (h *HTTPGuard) Routes() RouteConfig {
	return h.guard.Routes()
}

// Middleware evaluates every request path against the route table
func (h *HTTPGuard) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := h.guard.Evaluate(c.Path())

		switch decision.Action {
		case ActionWait:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Session is initializing",
			})

		case ActionRedirect:
			if decision.Resume != "" {
				h.SetRedirect(c, decision.Resume)
			}

			statusCode := fiber.StatusSeeOther
			if c.Method() == fiber.MethodGet {
				statusCode = fiber.StatusFound
			}
			return c.Redirect(decision.Target, statusCode)
		}

		if identity := h.guard.Auth().Identity(); identity != nil {
			SetIdentity(c, identity)
		}

		return c.Next()
	}
}

// SetRedirect remembers the rejected path for the post-login resume
func (h *HTTPGuard) SetRedirect(c *fiber.Ctx, path string) {
	h.Logger.Info("setting redirect cookie", "key", RejectedRouteCookie, "path", path)

	c.Cookie(&fiber.Cookie{
		Name:     RejectedRouteCookie,
		Value:    path,
		Expires:  time.Now().Add(rejectedRouteTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect consumes the remembered path, falling back to def
func (h *HTTPGuard) GetRedirect(c *fiber.Ctx, def string) string {
	r := c.Cookies(RejectedRouteCookie)
	if r == "" {
		return def
	}
	h.cookieDel(c, RejectedRouteCookie)
	return r
}

func (h *HTTPGuard) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
