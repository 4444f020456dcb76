package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"puckpool-backend/auth"
	"puckpool-backend/middleware"
)

// TryToken is the access gate. The token may arrive as a ?token= query
// parameter, an Authorization bearer header, or a pasted JSON body; all
// three funnel through the same verifier with no differentiated trust.
func (a *API) TryToken(c *fiber.Ctx) error {
	tok := c.Query("token")
	if tok == "" {
		if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = h[len("Bearer "):]
		}
	}
	if tok == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&body); err == nil {
			tok = body.Token
		}
	}
	if tok == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	claims, err := a.Verifier.Verify(tok)
	if err != nil {
		// the verifier's message is the gate message
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err := a.Sessions.Establish(claims.Role, claims.Raw, tok); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to persist session"})
	}
	a.Log.Info().Str("role", claims.Role).Msg("session established")
	return c.JSON(fiber.Map{"role": claims.Role, "claims": claims.Raw})
}

// Access reports the visibility projection for the current session. Always
// 200: the gate state is data, not an error.
func (a *API) Access(c *fiber.Ctx) error {
	return c.JSON(auth.AccessFor(a.Sessions.Current()))
}

// CurrentSession returns the established session.
func (a *API) CurrentSession(c *fiber.Ctx) error {
	sess, _ := c.Locals(middleware.SessionKey).(*auth.Session)
	if sess == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no active session"})
	}
	return c.JSON(fiber.Map{"role": sess.Role, "claims": sess.Claims})
}

// Logout clears the persisted session.
func (a *API) Logout(c *fiber.Ctx) error {
	if err := a.Sessions.Clear(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear session"})
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}
