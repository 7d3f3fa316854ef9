package server

import (
	"larder/internal/models"
	"larder/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLists handles GET /api/lists
func (s *Server) GetLists(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	activeOnly := c.QueryBool("active")
	lists, err := s.listService.ListLists(c.UserContext(), currentUserID(c), activeOnly, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(lists)
}

// GetList handles GET /api/lists/:id
func (s *Server) GetList(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	list, err := s.listService.GetList(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(list)
}

// CreateList handles POST /api/lists
func (s *Server) CreateList(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	list, err := s.listService.CreateList(c.UserContext(), currentUserID(c), service.CreateListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// UpdateList handles PATCH /api/lists/:id
func (s *Server) UpdateList(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	list, err := s.listService.UpdateList(c.UserContext(), id, currentUserID(c), service.UpdateListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(list)
}

// DeleteList handles DELETE /api/lists/:id
func (s *Server) DeleteList(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.listService.DeleteList(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddListItem handles POST /api/lists/:id/items
func (s *Server) AddListItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name           string   `json:"name"`
		ProductID      *uint    `json:"product_id"`
		Quantity       int      `json:"quantity"`
		EstimatedPrice *float64 `json:"estimated_price"`
		Note           string   `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.listService.AddItem(c.UserContext(), id, currentUserID(c), service.AddItemInput{
		Name:           req.Name,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		EstimatedPrice: req.EstimatedPrice,
		Note:           req.Note,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// AddProductToList handles POST /api/lists/:id/products/:productId
func (s *Server) AddProductToList(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	// An empty body means quantity 1.
	_ = c.BodyParser(&req)

	item, err := s.listService.AddProduct(c.UserContext(), id, currentUserID(c), productID, req.Quantity)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateListItem handles PATCH /api/lists/:id/items/:itemId
func (s *Server) UpdateListItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	itemID, err := s.parseID(c, "itemId")
	if err != nil {
		return nil
	}

	var req struct {
		Name           *string  `json:"name"`
		Quantity       *int     `json:"quantity"`
		EstimatedPrice *float64 `json:"estimated_price"`
		Note           *string  `json:"note"`
		Purchased      *bool    `json:"purchased"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.listService.UpdateItem(c.UserContext(), id, itemID, currentUserID(c), service.UpdateItemInput{
		Name:           req.Name,
		Quantity:       req.Quantity,
		EstimatedPrice: req.EstimatedPrice,
		Note:           req.Note,
		Purchased:      req.Purchased,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(item)
}

// ToggleListItem handles POST /api/lists/:id/items/:itemId/toggle
func (s *Server) ToggleListItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	itemID, err := s.parseID(c, "itemId")
	if err != nil {
		return nil
	}

	item, err := s.listService.ToggleItem(c.UserContext(), id, itemID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(item)
}

// DeleteListItem handles DELETE /api/lists/:id/items/:itemId
func (s *Server) DeleteListItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	itemID, err := s.parseID(c, "itemId")
	if err != nil {
		return nil
	}

	if err := s.listService.DeleteItem(c.UserContext(), id, itemID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetListSummary handles GET /api/lists/:id/summary
func (s *Server) GetListSummary(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	summary, err := s.listService.Summary(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(summary)
}

// GetListSuggestions handles GET /api/lists/:id/suggestions
func (s *Server) GetListSuggestions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	suggestions, err := s.listService.Suggestions(c.UserContext(), id, currentUserID(c), c.QueryInt("limit", 10))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(suggestions)
}

// FinalizeList handles POST /api/lists/:id/finalize
func (s *Server) FinalizeList(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Location     string `json:"location"`
		Note         string `json:"note"`
		AddToStock   *bool  `json:"add_to_stock"`
		UpdatePrices *bool  `json:"update_prices"`
	}
	// The body is optional; stock and price reconciliation default on and
	// must be disabled explicitly.
	_ = c.BodyParser(&req)

	addToStock, updatePrices := true, true
	if req.AddToStock != nil {
		addToStock = *req.AddToStock
	}
	if req.UpdatePrices != nil {
		updatePrices = *req.UpdatePrices
	}

	purchase, err := s.checkoutService.Finalize(c.UserContext(), service.FinalizeInput{
		ListID:       id,
		UserID:       currentUserID(c),
		Location:     req.Location,
		Note:         req.Note,
		AddToStock:   addToStock,
		UpdatePrices: updatePrices,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}
