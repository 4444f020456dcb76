package middleware

import (
	"github.com/gofiber/fiber/v2"

	"puckpool-backend/auth"
)

const SessionKey = "session"

// RequireSession gates the app surfaces: no established session means the
// caller is still at the access gate.
func RequireSession(sessions *auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessions.Current()
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no active session"})
		}
		c.Locals(SessionKey, sess)
		return c.Next()
	}
}

// RequireManager gates the manager-only surfaces.
func RequireManager(sessions *auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, _ := c.Locals(SessionKey).(*auth.Session)
		if sess == nil {
			sess = sessions.Current()
		}
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no active session"})
		}
		if !sess.IsManager() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "manager role required"})
		}
		c.Locals(SessionKey, sess)
		return c.Next()
	}
}
