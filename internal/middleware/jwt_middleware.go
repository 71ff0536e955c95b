package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"vetrina/internal/services"
)

const claimsKey = "claims"

// bearerToken reads the token from the Authorization header. Browsers cannot
// set headers on an EventSource, so the token query parameter is accepted too.
func bearerToken(c *fiber.Ctx) (string, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, ""
		}
		return "", "Authorization header is required"
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", "Authorization header format must be 'Bearer <token>'"
	}
	return parts[1], ""
}

// SessionRequired is a Fiber middleware to check for a valid session token.
// Anonymous and admin tokens are both accepted.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": problem,
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.WithError(err).Debug("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// AdminRequired rejects callers whose token does not carry the admin role.
// It must run after SessionRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ClaimsFrom(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access required",
			})
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by SessionRequired.
func ClaimsFrom(c *fiber.Ctx) services.Claims {
	claims, _ := c.Locals(claimsKey).(services.Claims)
	return claims
}
