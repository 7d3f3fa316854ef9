package repository

import (
	"context"
	"errors"
	"fmt"

	"larder/internal/cache"
	"larder/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines persistence operations for the product catalog.
type ProductRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetByNameFold(ctx context.Context, name string) (*models.Product, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.Product, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db     *gorm.DB
	cached bool
}

// NewProductRepository returns a new ProductRepository implementation.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db, cached: true}
}

// NewUncachedProductRepository returns a repository whose reads always hit the
// given handle. Transactional flows use it: reads must see the transaction's
// own writes, and uncommitted state must never reach the shared cache.
func NewUncachedProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("name ASC").
		Limit(limit).Offset(offset).
		Find(&products).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	fetch := func() error {
		if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Product")
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	if !r.cached {
		if err := fetch(); err != nil {
			return nil, err
		}
		return &product, nil
	}

	if err := cache.CacheAside(ctx, cache.ProductKey(id), &product, cache.ProductTTL, fetch); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByBarcode returns (nil, nil) when no product carries the barcode.
func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &product, nil
}

// GetByNameFold does a case-insensitive exact name match and returns
// (nil, nil) when no product matches. When several products share a name the
// oldest one wins.
func (r *productRepository) GetByNameFold(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &product, nil
}

// Search matches the query against product name, description, barcode and
// the category name, case-insensitively.
func (r *productRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.Product, error) {
	var products []models.Product
	pattern := fmt.Sprintf("%%%s%%", query)
	if err := r.db.WithContext(ctx).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where(
			"LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?) OR LOWER(products.barcode) LIKE LOWER(?) OR LOWER(categories.name) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		).
		Preload("Category").
		Order("products.name ASC").
		Limit(limit).Offset(offset).
		Find(&products).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

// ListLowStock returns products at or below their restock threshold, using
// the default threshold where none is set.
func (r *productRepository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	fetch := func() error {
		if err := r.db.WithContext(ctx).
			Where("stock_quantity <= COALESCE(min_stock, ?)", models.DefaultMinStock).
			Order("name ASC").
			Find(&products).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	if !r.cached {
		if err := fetch(); err != nil {
			return nil, err
		}
		return products, nil
	}

	if err := cache.CacheAside(ctx, cache.LowStockKey, &products, cache.LowStockTTL, fetch); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A product with this barcode already exists")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.LowStockKey)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A product with this barcode already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, product.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}
