package server

import (
	"strings"

	"larder/internal/middleware"
	"larder/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns the authentication middleware. It resolves the bearer
// token to a live account, so deleted or deactivated users are rejected even
// while their tokens are still within expiry.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthenticatedError("Authorization required"))
		}

		user, err := s.authService.ResolveToken(c.UserContext(), tokenString)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals("userID", user.ID)
		c.Locals("isSuperuser", user.IsSuperuser)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// SuperuserRequired rejects non-superuser accounts with 403. Must be placed
// after AuthRequired so the locals are populated.
func (s *Server) SuperuserRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSuperuser, _ := c.Locals("isSuperuser").(bool)
		if !isSuperuser {
			return models.RespondWithError(c,
				models.NewForbiddenError("Superuser access required"))
		}
		return c.Next()
	}
}
