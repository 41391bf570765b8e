package middleware

import (
	"errors"
	"log"
	"strings"

	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID    = "user_id"
	localEmail     = "email"
	localIsAdmin   = "is_admin"
	localSessionID = "session_id"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token backed by a live session.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			if !errors.Is(err, services.ErrInvalidToken) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not verify token",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(localUserID, identity.UserID)
		c.Locals(localEmail, identity.Email)
		c.Locals(localIsAdmin, identity.IsAdmin)
		c.Locals(localSessionID, identity.SessionID)

		return c.Next()
	}
}

// AdminOnly rejects callers that are not administrators. It must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals(localIsAdmin).(bool); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// SessionID returns the ID of the session behind the request's token.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
