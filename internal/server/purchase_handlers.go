package server

import (
	"time"

	"larder/internal/models"
	"larder/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseDateQuery reads an optional RFC 3339 or YYYY-MM-DD query parameter.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, models.NewValidationError("Invalid " + name + " date")
}

// GetPurchases handles GET /api/purchases
func (s *Server) GetPurchases(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	p := parsePagination(c, 50)
	purchases, err := s.purchaseService.ListPurchases(c.UserContext(), currentUserID(c), service.ListPurchasesInput{
		From:   from,
		To:     to,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(purchases)
}

// GetPurchase handles GET /api/purchases/:id
func (s *Server) GetPurchase(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	purchase, err := s.purchaseService.GetPurchase(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(purchase)
}

// CreatePurchase handles POST /api/purchases
func (s *Server) CreatePurchase(c *fiber.Ctx) error {
	var req struct {
		PurchaseDate *time.Time `json:"purchase_date"`
		Location     string     `json:"location"`
		Note         string     `json:"note"`
		Items        []struct {
			Name      string  `json:"name"`
			ProductID *uint   `json:"product_id"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
			Category  *string `json:"category"`
		} `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePurchaseInput{
		PurchaseDate: req.PurchaseDate,
		Location:     req.Location,
		Note:         req.Note,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.PurchaseItemInput{
			Name:      item.Name,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Category:  item.Category,
		})
	}

	purchase, err := s.purchaseService.CreatePurchase(c.UserContext(), currentUserID(c), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// UpdatePurchase handles PATCH /api/purchases/:id
func (s *Server) UpdatePurchase(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Location *string `json:"location"`
		Note     *string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	purchase, err := s.purchaseService.UpdatePurchase(c.UserContext(), id, currentUserID(c), service.UpdatePurchaseInput{
		Location: req.Location,
		Note:     req.Note,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(purchase)
}

// DeletePurchase handles DELETE /api/purchases/:id
func (s *Server) DeletePurchase(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.purchaseService.DeletePurchase(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPurchaseStatistics handles GET /api/purchases/statistics
func (s *Server) GetPurchaseStatistics(c *fiber.Ctx) error {
	stats, err := s.purchaseService.Statistics(c.UserContext(), currentUserID(c), c.QueryInt("window_days", 0))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}
