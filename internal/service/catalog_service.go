package service

import (
	"context"
	"strings"

	"larder/internal/middleware"
	"larder/internal/models"
	"larder/internal/repository"
)

// CatalogService handles the product catalog and inventory levels.
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	MinStock    *int
	CategoryID  *uint
	Barcode     *string
}

// UpdateProductInput is a patch: nil fields are left untouched. ClearCategory
// detaches the product from its category.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	Stock         *int
	MinStock      *int
	CategoryID    *uint
	ClearCategory bool
	Barcode       *string
}

// StockAdjustment changes on-hand quantity by a signed delta.
type StockAdjustment struct {
	ProductID uint
	Delta     int
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo, categoryRepo: categoryRepo}
}

func (s *CatalogService) ListProducts(ctx context.Context, query string, limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if q := strings.TrimSpace(query); q != "" {
		return s.productRepo.Search(ctx, q, limit, offset)
	}
	return s.productRepo.List(ctx, limit, offset)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *CatalogService) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("Product")
	}
	return product, nil
}

// ListLowStock returns products at or below their restock threshold and
// refreshes the low-stock gauge.
func (s *CatalogService) ListLowStock(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	middleware.LowStockProducts.Set(float64(len(products)))
	return products, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Product name is required")
	}
	if in.Price <= 0 {
		return nil, models.NewValidationError("Price must be positive")
	}
	if in.Stock < 0 {
		return nil, models.NewValidationError("Stock cannot be negative")
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return nil, models.NewValidationError("Minimum stock cannot be negative")
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:          name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.Stock,
		MinStock:      in.MinStock,
		CategoryID:    in.CategoryID,
		Barcode:       in.Barcode,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Product name cannot be empty")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewValidationError("Price must be positive")
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, models.NewValidationError("Stock cannot be negative")
		}
		product.StockQuantity = *in.Stock
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, models.NewValidationError("Minimum stock cannot be negative")
		}
		product.MinStock = in.MinStock
	}
	switch {
	case in.ClearCategory:
		product.CategoryID = nil
		product.Category = nil
	case in.CategoryID != nil:
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID
		product.Category = nil
	}
	if in.Barcode != nil {
		product.Barcode = in.Barcode
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock applies a signed delta to on-hand quantity, refusing to go
// below zero.
func (s *CatalogService) AdjustStock(ctx context.Context, in StockAdjustment) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	next := product.StockQuantity + in.Delta
	if next < 0 {
		return nil, models.NewValidationError("Stock cannot go below zero")
	}
	product.StockQuantity = next

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
