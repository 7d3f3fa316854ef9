package server

import (
	"larder/internal/models"
	"larder/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProducts handles GET /api/products. A non-empty ?q= switches the listing
// into free-text search.
func (s *Server) GetProducts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	products, err := s.catalogService.ListProducts(c.UserContext(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.catalogService.GetProduct(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// GetProductByBarcode handles GET /api/products/barcode/:barcode
func (s *Server) GetProductByBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if barcode == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Barcode is required"))
	}

	product, err := s.catalogService.GetProductByBarcode(c.UserContext(), barcode)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// GetLowStockProducts handles GET /api/products/low-stock
func (s *Server) GetLowStockProducts(c *fiber.Ctx) error {
	products, err := s.catalogService.ListLowStock(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}

// CreateProduct handles POST /api/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock_quantity"`
		MinStock    *int    `json:"min_stock"`
		CategoryID  *uint   `json:"category_id"`
		Barcode     *string `json:"barcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.catalogService.CreateProduct(c.UserContext(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		Barcode:     req.Barcode,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PATCH /api/products/:id
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Price         *float64 `json:"price"`
		Stock         *int     `json:"stock_quantity"`
		MinStock      *int     `json:"min_stock"`
		CategoryID    *uint    `json:"category_id"`
		ClearCategory bool     `json:"clear_category"`
		Barcode       *string  `json:"barcode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.catalogService.UpdateProduct(c.UserContext(), id, service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Barcode:       req.Barcode,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// AdjustProductStock handles POST /api/products/:id/stock
func (s *Server) AdjustProductStock(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.catalogService.AdjustStock(c.UserContext(), service.StockAdjustment{
		ProductID: id,
		Delta:     req.Delta,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteProduct(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
