package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"modelhub/internal/services"
)

// AuthHandler defines handlers for registration, login and session management.
type AuthHandler struct {
	Service *services.AuthService
}

// NewAuthHandler creates a new AuthHandler with the given AuthService.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type credentialsRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /register to create a new user account.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "User and access token"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	user, token, err := h.Service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "User not found", "An error occurred while registering the user")
	}
	log.Info().Str("user_id", user.ID.String()).Msg("registered user")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":         user,
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// Login handles POST /login to authenticate a user and issue a token.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "User and access token"
// @Failure 401 {object} map[string]interface{} "Invalid login details"
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	user, token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid login details"})
		}
		return respondError(c, err, "User not found", "An error occurred while logging in")
	}
	return c.JSON(fiber.Map{
		"user":         user,
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// Logout handles POST /logout to invalidate the presented access token.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Logged out"
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Service.Logout(currentToken(c)); err != nil {
		return respondError(c, err, "Token not found", "An error occurred while logging out")
	}
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// CurrentUser handles GET /user to return the authenticated user.
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Router /user [get]
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// ListUsers handles GET /users to list all registered users.
// @Summary List users
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "All users"
// @Router /users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers()
	if err != nil {
		return respondError(c, err, "Users not found", "An error occurred while listing users")
	}
	return c.JSON(fiber.Map{"users": users})
}
