package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"vetrina/internal/models"
	"vetrina/internal/services"
)

// AuthHandler handles HTTP requests for sessions and administrator accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    models.NewValidator(),
	}
}

// RegisterRoutes registers the session and authentication routes. Only
// registering an administrator goes through the admin guards.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, adminGuards ...fiber.Handler) {
	router.Post("/session", h.HandleStartSession)

	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/register", append(adminGuards, h.HandleRegister)...)
}

// HandleStartSession issues an anonymous session token.
func (h *AuthHandler) HandleStartSession(c *fiber.Ctx) error {
	token, claims, err := h.authService.StartSession()
	if err != nil {
		return respondError(c, "Could not start session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":      token,
		"session_id": claims.SessionID,
	})
}

// HandleRegister creates another administrator.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badRequest(c, err)
	}

	if err := h.authService.RegisterAdmin(&user); err != nil {
		return respondError(c, "Registration failed", err)
	}
	log.WithField("username", user.Username).Info("Administrator registered")

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles administrator login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.LoginAdmin(req.Username, req.Password)
	if err != nil {
		log.WithField("username", req.Username).Warn("Failed administrator login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
