package service

import (
	"context"
	"errors"

	"larder/internal/models"
	"larder/internal/repository"
)

// StockPolicy decides which catalog product a purchased list item maps to
// when stock is being updated.
type StockPolicy interface {
	Resolve(ctx context.Context, products repository.ProductRepository, item models.ListItem) (*models.Product, error)
}

// ResolveOrCreatePolicy resolves by linked product ID first, then by
// case-insensitive name, and finally creates a new product with zero stock so
// the incoming quantity becomes its first stock movement.
type ResolveOrCreatePolicy struct{}

func NewResolveOrCreatePolicy() *ResolveOrCreatePolicy {
	return &ResolveOrCreatePolicy{}
}

func (p *ResolveOrCreatePolicy) Resolve(ctx context.Context, products repository.ProductRepository, item models.ListItem) (*models.Product, error) {
	if item.ProductID != nil {
		product, err := products.GetByID(ctx, *item.ProductID)
		if err == nil {
			return product, nil
		}
		// A stale link falls back to name resolution.
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
			return nil, err
		}
	}

	product, err := products.GetByNameFold(ctx, item.Name)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}

	price := 0.0
	if item.EstimatedPrice != nil {
		price = *item.EstimatedPrice
	}
	product = &models.Product{
		Name:  item.Name,
		Price: price,
	}
	if err := products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
