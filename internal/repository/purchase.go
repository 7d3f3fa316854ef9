package repository

import (
	"context"
	"errors"
	"time"

	"larder/internal/cache"
	"larder/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository defines persistence operations for purchase history.
// Like lists, purchases are owner-scoped everywhere.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id, userID uint) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID uint, from, to *time.Time, limit, offset int) ([]models.Purchase, error)
	Update(ctx context.Context, purchase *models.Purchase) error
	Delete(ctx context.Context, id, userID uint) error

	// ItemsSince returns the user's purchase items whose purchase date falls
	// on or after since, in purchase date then insertion order.
	ItemsSince(ctx context.Context, userID uint, since time.Time) ([]models.PurchaseItem, error)
	// TotalsSince returns the count and summed value of the user's purchases
	// on or after since.
	TotalsSince(ctx context.Context, userID uint, since time.Time) (int64, float64, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository returns a new PurchaseRepository implementation.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx, purchase.UserID)
	return nil
}

func (r *purchaseRepository) GetByID(ctx context.Context, id, userID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("purchase_items.id ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Purchase")
		}
		return nil, models.NewInternalError(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint, from, to *time.Time, limit, offset int) ([]models.Purchase, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("purchase_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("purchase_date <= ?", *to)
	}

	var purchases []models.Purchase
	if err := q.
		Preload("Items").
		Order("purchase_date DESC").
		Limit(limit).Offset(offset).
		Find(&purchases).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return purchases, nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *models.Purchase) error {
	if err := r.db.WithContext(ctx).Save(purchase).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *purchaseRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Purchase{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Purchase")
	}
	cache.InvalidateStats(ctx, userID)
	return nil
}

func (r *purchaseRepository) ItemsSince(ctx context.Context, userID uint, since time.Time) ([]models.PurchaseItem, error) {
	var items []models.PurchaseItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchases.user_id = ? AND purchases.purchase_date >= ?", userID, since).
		Order("purchases.purchase_date ASC, purchase_items.id ASC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *purchaseRepository) TotalsSince(ctx context.Context, userID uint, since time.Time) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_value), 0) AS total").
		Where("user_id = ? AND purchase_date >= ?", userID, since).
		Scan(&row).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return row.Count, row.Total, nil
}
