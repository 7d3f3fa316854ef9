package server

import (
	"larder/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscriptions
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	sub, err := s.subscriptionService.Subscribe(c.UserContext(), currentUserID(c), req.Plan)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetMySubscription handles GET /api/subscriptions/me
func (s *Server) GetMySubscription(c *fiber.Ctx) error {
	sub, err := s.subscriptionService.Current(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(sub)
}

// CancelSubscription handles POST /api/subscriptions/cancel
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	sub, err := s.subscriptionService.Cancel(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(sub)
}
