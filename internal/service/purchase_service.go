package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"larder/internal/cache"
	"larder/internal/models"
	"larder/internal/repository"
)

// PurchaseService handles purchase history and statistics.
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
}

// PurchaseItemInput is one line of a manually recorded purchase.
type PurchaseItemInput struct {
	Name      string
	ProductID *uint
	Quantity  int
	UnitPrice float64
	Category  *string
}

type CreatePurchaseInput struct {
	PurchaseDate *time.Time
	Location     string
	Note         string
	Items        []PurchaseItemInput
}

// UpdatePurchaseInput covers the only mutable fields of a purchase record.
type UpdatePurchaseInput struct {
	Location *string
	Note     *string
}

type ListPurchasesInput struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// DefaultStatsWindowDays is the trailing window used when none is given.
const DefaultStatsWindowDays = 30

const topProductsLimit = 10

func NewPurchaseService(purchaseRepo repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{purchaseRepo: purchaseRepo}
}

// CreatePurchase records a shopping trip entered by hand. Line totals and the
// purchase total are always recomputed server-side.
func (s *PurchaseService) CreatePurchase(ctx context.Context, userID uint, in CreatePurchaseInput) (*models.Purchase, error) {
	if len(in.Items) == 0 {
		return nil, models.NewValidationError("A purchase needs at least one item")
	}

	purchaseDate := time.Now()
	if in.PurchaseDate != nil {
		purchaseDate = *in.PurchaseDate
	}

	purchase := &models.Purchase{
		UserID:       userID,
		PurchaseDate: purchaseDate,
		Location:     in.Location,
		Note:         in.Note,
	}

	for _, line := range in.Items {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			return nil, models.NewValidationError("Item name is required")
		}
		if line.Quantity <= 0 {
			return nil, models.NewValidationError("Item quantity must be positive")
		}
		if line.UnitPrice < 0 {
			return nil, models.NewValidationError("Unit price cannot be negative")
		}

		total := line.UnitPrice * float64(line.Quantity)
		purchase.Items = append(purchase.Items, models.PurchaseItem{
			Name:       name,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: total,
			Category:   line.Category,
		})
		purchase.TotalValue += total
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *PurchaseService) GetPurchase(ctx context.Context, purchaseID, userID uint) (*models.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, purchaseID, userID)
}

func (s *PurchaseService) ListPurchases(ctx context.Context, userID uint, in ListPurchasesInput) ([]models.Purchase, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, models.NewValidationError("Date range end precedes start")
	}
	return s.purchaseRepo.ListByUser(ctx, userID, in.From, in.To, in.Limit, in.Offset)
}

// UpdatePurchase edits the mutable metadata of a purchase. Items and totals
// are immutable once recorded.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, purchaseID, userID uint, in UpdatePurchaseInput) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID, userID)
	if err != nil {
		return nil, err
	}

	if in.Location != nil {
		purchase.Location = *in.Location
	}
	if in.Note != nil {
		purchase.Note = *in.Note
	}

	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *PurchaseService) DeletePurchase(ctx context.Context, purchaseID, userID uint) error {
	return s.purchaseRepo.Delete(ctx, purchaseID, userID)
}

// Statistics aggregates the user's purchases over a trailing window: counts,
// totals and the ten most purchased items by quantity. Ranking ties keep the
// order items were first seen, oldest purchase first.
func (s *PurchaseService) Statistics(ctx context.Context, userID uint, windowDays int) (*models.PurchaseStats, error) {
	if windowDays <= 0 {
		windowDays = DefaultStatsWindowDays
	}
	if windowDays > 365 {
		return nil, models.NewValidationError("Statistics window cannot exceed one year")
	}

	stats := &models.PurchaseStats{WindowDays: windowDays}
	key := cache.StatsKey(userID, windowDays)

	err := cache.CacheAside(ctx, key, stats, cache.StatsTTL, func() error {
		since := time.Now().AddDate(0, 0, -windowDays)

		count, total, err := s.purchaseRepo.TotalsSince(ctx, userID, since)
		if err != nil {
			return err
		}
		stats.TotalPurchases = int(count)
		stats.TotalSpent = total
		if count > 0 {
			stats.AveragePurchase = total / float64(count)
		}

		items, err := s.purchaseRepo.ItemsSince(ctx, userID, since)
		if err != nil {
			return err
		}
		stats.TopProducts = rankTopProducts(items, topProductsLimit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func rankTopProducts(items []models.PurchaseItem, limit int) []models.TopProductStat {
	byName := make(map[string]*models.TopProductStat)
	var order []string

	for _, item := range items {
		key := strings.ToLower(item.Name)
		entry, ok := byName[key]
		if !ok {
			entry = &models.TopProductStat{Name: item.Name}
			byName[key] = entry
			order = append(order, key)
		}
		entry.Quantity += item.Quantity
		entry.TotalSpent += item.TotalPrice
	}

	sort.SliceStable(order, func(i, j int) bool {
		return byName[order[i]].Quantity > byName[order[j]].Quantity
	})

	if len(order) > limit {
		order = order[:limit]
	}
	top := make([]models.TopProductStat, 0, len(order))
	for _, key := range order {
		top = append(top, *byName[key])
	}
	return top
}
