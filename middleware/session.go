// middleware/session.go
package middleware

import (
	"log"

	"bounty-settlement-system/services"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the settlement session token issued when the operator
// moves from the game screen to the settlement screen.
const SessionHeader = "X-Settlement-Session"

// SessionContextMiddleware resolves the settlement session token and attaches
// the session to the request context. Routes behind it can assume a live
// session; an expired or unknown token sends the client back to reopen one.
func SessionContextMiddleware(store *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(SessionHeader)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing " + SessionHeader + " header — open a settlement session first",
			})
		}

		session, ok := store.Get(token)
		if !ok {
			log.Printf("🚫 [SESSION] Unknown or expired settlement session for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "settlement session expired or unknown",
			})
		}

		c.Locals(services.SessionLocalKey, session)
		return c.Next()
	}
}
