package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/rest/response"
)

// identityKey is the fiber.Ctx local holding the caller identity.
const identityKey = "identity"

// Authenticate resolves the caller through a and stores the identity for
// handlers. Requests that fail authentication get a 401 envelope.
func Authenticate(a auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := a.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = err.Error()
			}
			return response.HandleError(c, response.NewUnauthorizedError(msg))
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// Identity returns the caller set by Authenticate, or nil when the route is
// not behind it.
func Identity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(identityKey).(*auth.Identity)
	return id
}
