package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"modelhub/internal/models"
	"modelhub/internal/services"
)

const (
	userLocalsKey  = "auth_user"
	tokenLocalsKey = "auth_token"
)

// NewAuthMiddleware returns a Fiber middleware that resolves the bearer token
// to a user and stores it in the request locals.
func NewAuthMiddleware(auth *services.AuthService) fiber.Handler {
	return keyauth.New(keyauth.Config{
		Validator: func(c *fiber.Ctx, token string) (bool, error) {
			user, err := auth.Authenticate(token)
			if err != nil {
				return false, err
			}
			c.Locals(userLocalsKey, user)
			c.Locals(tokenLocalsKey, token)
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated"})
		},
	})
}

// currentUser returns the authenticated user stored by the middleware.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// currentToken returns the raw bearer token of the current request.
func currentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocalsKey).(string)
	return token
}
