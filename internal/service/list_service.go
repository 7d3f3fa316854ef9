package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"larder/internal/models"
	"larder/internal/repository"
)

// ListService handles shopping lists and their items.
type ListService struct {
	listRepo     repository.ListRepository
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
}

type CreateListInput struct {
	Name        string
	Description string
}

type UpdateListInput struct {
	Name        *string
	Description *string
}

// AddItemInput creates one list line. When ProductID is set, Name and
// EstimatedPrice default to the product's values.
type AddItemInput struct {
	Name           string
	ProductID      *uint
	Quantity       int
	EstimatedPrice *float64
	Note           string
}

type UpdateItemInput struct {
	Name           *string
	Quantity       *int
	EstimatedPrice *float64
	Note           *string
	Purchased      *bool
}

// Suggestion is a shopping suggestion derived from purchase history.
type Suggestion struct {
	Name      string `json:"name"`
	Purchases int    `json:"purchases"`
}

func NewListService(listRepo repository.ListRepository, productRepo repository.ProductRepository, purchaseRepo repository.PurchaseRepository) *ListService {
	return &ListService{listRepo: listRepo, productRepo: productRepo, purchaseRepo: purchaseRepo}
}

func (s *ListService) ListLists(ctx context.Context, userID uint, activeOnly bool, limit, offset int) ([]models.ShoppingList, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.listRepo.ListByUser(ctx, userID, activeOnly, limit, offset)
}

func (s *ListService) GetList(ctx context.Context, listID, userID uint) (*models.ShoppingList, error) {
	return s.listRepo.GetWithItems(ctx, listID, userID)
}

func (s *ListService) CreateList(ctx context.Context, userID uint, in CreateListInput) (*models.ShoppingList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("List name is required")
	}

	list := &models.ShoppingList{
		Name:        name,
		Description: in.Description,
		UserID:      userID,
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListService) UpdateList(ctx context.Context, listID, userID uint, in UpdateListInput) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("List name cannot be empty")
		}
		list.Name = name
	}
	if in.Description != nil {
		list.Description = *in.Description
	}

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListService) DeleteList(ctx context.Context, listID, userID uint) error {
	return s.listRepo.Delete(ctx, listID, userID)
}

// AddItem appends a line to the list. Free-text items need a name; product
// backed items inherit name and price from the catalog.
func (s *ListService) AddItem(ctx context.Context, listID, userID uint, in AddItemInput) (*models.ListItem, error) {
	list, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	item := &models.ListItem{
		ListID:         list.ID,
		Name:           strings.TrimSpace(in.Name),
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		EstimatedPrice: in.EstimatedPrice,
		Note:           in.Note,
	}

	if in.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		if item.Name == "" {
			item.Name = product.Name
		}
		if item.EstimatedPrice == nil {
			price := product.Price
			item.EstimatedPrice = &price
		}
	}

	if item.Name == "" {
		return nil, models.NewValidationError("Item name is required")
	}
	if item.Quantity < 0 {
		return nil, models.NewValidationError("Quantity cannot be negative")
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.EstimatedPrice != nil && *item.EstimatedPrice < 0 {
		return nil, models.NewValidationError("Estimated price cannot be negative")
	}

	if err := s.listRepo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AddProduct puts a catalog product on the list. If the product is already
// there its quantity is bumped instead of adding a duplicate line.
func (s *ListService) AddProduct(ctx context.Context, listID, userID, productID uint, quantity int) (*models.ListItem, error) {
	if quantity <= 0 {
		quantity = 1
	}
	list, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.listRepo.ListItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID != nil && *items[i].ProductID == productID {
			items[i].Quantity += quantity
			if err := s.listRepo.UpdateItem(ctx, &items[i]); err != nil {
				return nil, err
			}
			return &items[i], nil
		}
	}

	return s.AddItem(ctx, listID, userID, AddItemInput{ProductID: &productID, Quantity: quantity})
}

func (s *ListService) UpdateItem(ctx context.Context, listID, itemID, userID uint, in UpdateItemInput) (*models.ListItem, error) {
	if _, err := s.listRepo.GetByID(ctx, listID, userID); err != nil {
		return nil, err
	}
	item, err := s.listRepo.GetItem(ctx, itemID, listID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Item name cannot be empty")
		}
		item.Name = name
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, models.NewValidationError("Quantity must be positive")
		}
		item.Quantity = *in.Quantity
	}
	if in.EstimatedPrice != nil {
		if *in.EstimatedPrice < 0 {
			return nil, models.NewValidationError("Estimated price cannot be negative")
		}
		item.EstimatedPrice = in.EstimatedPrice
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	if in.Purchased != nil {
		item.Purchased = *in.Purchased
	}

	if err := s.listRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ToggleItem flips an item's purchased flag.
func (s *ListService) ToggleItem(ctx context.Context, listID, itemID, userID uint) (*models.ListItem, error) {
	if _, err := s.listRepo.GetByID(ctx, listID, userID); err != nil {
		return nil, err
	}
	item, err := s.listRepo.GetItem(ctx, itemID, listID)
	if err != nil {
		return nil, err
	}

	item.Purchased = !item.Purchased
	if err := s.listRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ListService) DeleteItem(ctx context.Context, listID, itemID, userID uint) error {
	if _, err := s.listRepo.GetByID(ctx, listID, userID); err != nil {
		return err
	}
	return s.listRepo.DeleteItem(ctx, itemID, listID)
}

// Summary computes counts and the estimated total over all items, pricing
// unpriced lines at zero.
func (s *ListService) Summary(ctx context.Context, listID, userID uint) (*models.ListSummary, error) {
	list, err := s.listRepo.GetWithItems(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.ListSummary{
		ID:          list.ID,
		Name:        list.Name,
		Description: list.Description,
		Completed:   list.Completed,
		CreatedAt:   list.CreatedAt,
	}
	for _, item := range list.Items {
		summary.TotalItems++
		if item.Purchased {
			summary.PurchasedItems++
		}
		if item.EstimatedPrice != nil {
			summary.EstimatedTotal += *item.EstimatedPrice * float64(item.Quantity)
		}
	}
	return summary, nil
}

// suggestionWindowDays bounds how far back suggestions look.
const suggestionWindowDays = 90

// Suggestions proposes frequently purchased items that are not already on
// the list, most frequent first.
func (s *ListService) Suggestions(ctx context.Context, listID, userID uint, limit int) ([]Suggestion, error) {
	list, err := s.listRepo.GetWithItems(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	onList := make(map[string]bool, len(list.Items))
	for _, item := range list.Items {
		onList[strings.ToLower(item.Name)] = true
	}

	since := time.Now().AddDate(0, 0, -suggestionWindowDays)
	items, err := s.purchaseRepo.ItemsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		key := strings.ToLower(item.Name)
		if onList[key] {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, item.Name)
		}
		counts[key]++
	}

	// Most purchased first; ties keep first-seen order.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[strings.ToLower(order[i])] > counts[strings.ToLower(order[j])]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	suggestions := make([]Suggestion, 0, len(order))
	for _, name := range order {
		suggestions = append(suggestions, Suggestion{Name: name, Purchases: counts[strings.ToLower(name)]})
	}
	return suggestions, nil
}
