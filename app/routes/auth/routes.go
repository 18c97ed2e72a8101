package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// AuthMiddleware validates the JWT and sets user context. Tokens are
// issued by the identity service; this core only verifies them.
func AuthMiddleware(c *fiber.Ctx) error {
	// Get JWT token from cookie or Authorization header
	tokenString := c.Cookies("jwt_token")
	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	user := &models.User{
		ID:        claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		IsActive:  true,
		Roles:     claims.Roles,
	}

	c.Locals("user_id", user.ID)
	c.Locals("user", user)

	return c.Next()
}
