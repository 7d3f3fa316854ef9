package repository

import (
	"context"
	"errors"

	"larder/internal/models"

	"gorm.io/gorm"
)

// ListRepository defines persistence operations for shopping lists and their items.
// All lookups are scoped to the owning user; a list belonging to someone else
// is indistinguishable from a missing one.
type ListRepository interface {
	ListByUser(ctx context.Context, userID uint, activeOnly bool, limit, offset int) ([]models.ShoppingList, error)
	GetByID(ctx context.Context, id, userID uint) (*models.ShoppingList, error)
	GetWithItems(ctx context.Context, id, userID uint) (*models.ShoppingList, error)
	Create(ctx context.Context, list *models.ShoppingList) error
	Update(ctx context.Context, list *models.ShoppingList) error
	Delete(ctx context.Context, id, userID uint) error

	AddItem(ctx context.Context, item *models.ListItem) error
	GetItem(ctx context.Context, itemID, listID uint) (*models.ListItem, error)
	UpdateItem(ctx context.Context, item *models.ListItem) error
	DeleteItem(ctx context.Context, itemID, listID uint) error
	ListItems(ctx context.Context, listID uint) ([]models.ListItem, error)
}

type listRepository struct {
	db *gorm.DB
}

// NewListRepository returns a new ListRepository implementation.
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) ListByUser(ctx context.Context, userID uint, activeOnly bool, limit, offset int) ([]models.ShoppingList, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("completed = ?", false)
	}

	var lists []models.ShoppingList
	if err := query.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&lists).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return lists, nil
}

func (r *listRepository) GetByID(ctx context.Context, id, userID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Shopping list")
		}
		return nil, models.NewInternalError(err)
	}
	return &list, nil
}

func (r *listRepository) GetWithItems(ctx context.Context, id, userID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("list_items.id ASC")
		}).
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Shopping list")
		}
		return nil, models.NewInternalError(err)
	}
	return &list, nil
}

func (r *listRepository) Create(ctx context.Context, list *models.ShoppingList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listRepository) Update(ctx context.Context, list *models.ShoppingList) error {
	if err := r.db.WithContext(ctx).Save(list).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ShoppingList{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Shopping list")
	}
	return nil
}

func (r *listRepository) AddItem(ctx context.Context, item *models.ListItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listRepository) GetItem(ctx context.Context, itemID, listID uint) (*models.ListItem, error) {
	var item models.ListItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("List item")
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *listRepository) UpdateItem(ctx context.Context, item *models.ListItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listRepository) DeleteItem(ctx context.Context, itemID, listID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		Delete(&models.ListItem{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("List item")
	}
	return nil
}

func (r *listRepository) ListItems(ctx context.Context, listID uint) ([]models.ListItem, error) {
	var items []models.ListItem
	if err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}
