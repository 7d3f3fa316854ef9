package service

import (
	"context"
	"errors"
	"time"

	"larder/internal/middleware"
	"larder/internal/models"
	"larder/internal/repository"

	"gorm.io/gorm"
)

// CheckoutService turns a shopping list's purchased items into a purchase
// record, optionally feeding them back into the inventory. The whole
// finalization runs in one database transaction.
type CheckoutService struct {
	db     *gorm.DB
	policy StockPolicy
}

type FinalizeInput struct {
	ListID       uint
	UserID       uint
	Location     string
	Note         string
	AddToStock   bool
	UpdatePrices bool
}

func NewCheckoutService(db *gorm.DB, policy StockPolicy) *CheckoutService {
	return &CheckoutService{db: db, policy: policy}
}

// Finalize completes a shopping list:
//   - the checked-off items become an immutable purchase snapshot, each line
//     priced at its estimated price (zero when absent),
//   - with AddToStock the quantities are added to the matching products'
//     stock, creating products on the fly per the stock policy,
//   - with AddToStock and UpdatePrices the products' prices are refreshed
//     from the positive estimates; UpdatePrices alone changes nothing,
//   - the list is marked completed. Finalizing it again is a conflict.
func (s *CheckoutService) Finalize(ctx context.Context, in FinalizeInput) (*models.Purchase, error) {
	var purchase *models.Purchase

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listRepo := repository.NewListRepository(tx)
		productRepo := repository.NewUncachedProductRepository(tx)
		purchaseRepo := repository.NewPurchaseRepository(tx)

		list, err := listRepo.GetWithItems(ctx, in.ListID, in.UserID)
		if err != nil {
			return err
		}
		if list.Completed {
			return models.NewConflictError("Shopping list is already completed")
		}

		var bought []models.ListItem
		for _, item := range list.Items {
			if item.Purchased {
				bought = append(bought, item)
			}
		}
		if len(bought) == 0 {
			return models.NewNoPurchasedItemsError()
		}

		purchase = &models.Purchase{
			UserID:       in.UserID,
			ListID:       &list.ID,
			PurchaseDate: time.Now(),
			Location:     in.Location,
			Note:         in.Note,
		}

		for _, item := range bought {
			unitPrice := 0.0
			if item.EstimatedPrice != nil {
				unitPrice = *item.EstimatedPrice
			}
			line := models.PurchaseItem{
				Name:       item.Name,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: unitPrice * float64(item.Quantity),
			}

			if in.AddToStock {
				product, err := s.policy.Resolve(ctx, productRepo, item)
				if err != nil {
					return err
				}
				product.StockQuantity += item.Quantity
				// Only a positive estimate may replace the catalog price.
				if in.UpdatePrices && item.EstimatedPrice != nil && *item.EstimatedPrice > 0 {
					product.Price = *item.EstimatedPrice
				}
				if err := productRepo.Update(ctx, product); err != nil {
					return err
				}
				line.ProductID = &product.ID
			}

			purchase.TotalValue += line.TotalPrice
			purchase.Items = append(purchase.Items, line)
		}

		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}

		list.Completed = true
		return listRepo.Update(ctx, list)
	})

	middleware.CheckoutsTotal.WithLabelValues(checkoutOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func checkoutOutcome(err error) string {
	if err == nil {
		return "completed"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeConflict:
			return "conflict"
		case models.CodeNoPurchasedItems:
			return "empty"
		case models.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}
