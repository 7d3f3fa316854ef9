package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"larder/internal/models"

	"github.com/stretchr/testify/require"
)

// Function-field stubs for repository interfaces. The noop constructors fill
// every field with a zero-value implementation; tests override what they need.

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type productRepoStub struct {
	listFn          func(context.Context, int, int) ([]models.Product, error)
	getByIDFn       func(context.Context, uint) (*models.Product, error)
	getByBarcodeFn  func(context.Context, string) (*models.Product, error)
	getByNameFoldFn func(context.Context, string) (*models.Product, error)
	searchFn        func(context.Context, string, int, int) ([]models.Product, error)
	listLowStockFn  func(context.Context) ([]models.Product, error)
	createFn        func(context.Context, *models.Product) error
	updateFn        func(context.Context, *models.Product) error
	deleteFn        func(context.Context, uint) error
}

func (s *productRepoStub) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *productRepoStub) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.getByIDFn(ctx, id)
}
func (s *productRepoStub) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.getByBarcodeFn(ctx, barcode)
}
func (s *productRepoStub) GetByNameFold(ctx context.Context, name string) (*models.Product, error) {
	return s.getByNameFoldFn(ctx, name)
}
func (s *productRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.Product, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *productRepoStub) ListLowStock(ctx context.Context) ([]models.Product, error) {
	return s.listLowStockFn(ctx)
}
func (s *productRepoStub) Create(ctx context.Context, product *models.Product) error {
	return s.createFn(ctx, product)
}
func (s *productRepoStub) Update(ctx context.Context, product *models.Product) error {
	return s.updateFn(ctx, product)
}
func (s *productRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopProductRepo() *productRepoStub {
	return &productRepoStub{
		listFn:          func(context.Context, int, int) ([]models.Product, error) { return nil, nil },
		getByIDFn:       func(context.Context, uint) (*models.Product, error) { return nil, nil },
		getByBarcodeFn:  func(context.Context, string) (*models.Product, error) { return nil, nil },
		getByNameFoldFn: func(context.Context, string) (*models.Product, error) { return nil, nil },
		searchFn:        func(context.Context, string, int, int) ([]models.Product, error) { return nil, nil },
		listLowStockFn:  func(context.Context) ([]models.Product, error) { return nil, nil },
		createFn:        func(context.Context, *models.Product) error { return nil },
		updateFn:        func(context.Context, *models.Product) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

type categoryRepoStub struct {
	listFn         func(context.Context) ([]models.Category, error)
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	getByNameFn    func(context.Context, string) (*models.Category, error)
	createFn       func(context.Context, *models.Category) error
	updateFn       func(context.Context, *models.Category) error
	deleteFn       func(context.Context, uint) error
	listProductsFn func(context.Context, uint) ([]models.Product, error)
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) ListProducts(ctx context.Context, categoryID uint) ([]models.Product, error) {
	return s.listProductsFn(ctx, categoryID)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn:         func(context.Context) ([]models.Category, error) { return nil, nil },
		getByIDFn:      func(context.Context, uint) (*models.Category, error) { return nil, nil },
		getByNameFn:    func(context.Context, string) (*models.Category, error) { return nil, nil },
		createFn:       func(context.Context, *models.Category) error { return nil },
		updateFn:       func(context.Context, *models.Category) error { return nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		listProductsFn: func(context.Context, uint) ([]models.Product, error) { return nil, nil },
	}
}

type listRepoStub struct {
	listByUserFn   func(context.Context, uint, bool, int, int) ([]models.ShoppingList, error)
	getByIDFn      func(context.Context, uint, uint) (*models.ShoppingList, error)
	getWithItemsFn func(context.Context, uint, uint) (*models.ShoppingList, error)
	createFn       func(context.Context, *models.ShoppingList) error
	updateFn       func(context.Context, *models.ShoppingList) error
	deleteFn       func(context.Context, uint, uint) error
	addItemFn      func(context.Context, *models.ListItem) error
	getItemFn      func(context.Context, uint, uint) (*models.ListItem, error)
	updateItemFn   func(context.Context, *models.ListItem) error
	deleteItemFn   func(context.Context, uint, uint) error
	listItemsFn    func(context.Context, uint) ([]models.ListItem, error)
}

func (s *listRepoStub) ListByUser(ctx context.Context, userID uint, activeOnly bool, limit, offset int) ([]models.ShoppingList, error) {
	return s.listByUserFn(ctx, userID, activeOnly, limit, offset)
}
func (s *listRepoStub) GetByID(ctx context.Context, id, userID uint) (*models.ShoppingList, error) {
	return s.getByIDFn(ctx, id, userID)
}
func (s *listRepoStub) GetWithItems(ctx context.Context, id, userID uint) (*models.ShoppingList, error) {
	return s.getWithItemsFn(ctx, id, userID)
}
func (s *listRepoStub) Create(ctx context.Context, list *models.ShoppingList) error {
	return s.createFn(ctx, list)
}
func (s *listRepoStub) Update(ctx context.Context, list *models.ShoppingList) error {
	return s.updateFn(ctx, list)
}
func (s *listRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}
func (s *listRepoStub) AddItem(ctx context.Context, item *models.ListItem) error {
	return s.addItemFn(ctx, item)
}
func (s *listRepoStub) GetItem(ctx context.Context, itemID, listID uint) (*models.ListItem, error) {
	return s.getItemFn(ctx, itemID, listID)
}
func (s *listRepoStub) UpdateItem(ctx context.Context, item *models.ListItem) error {
	return s.updateItemFn(ctx, item)
}
func (s *listRepoStub) DeleteItem(ctx context.Context, itemID, listID uint) error {
	return s.deleteItemFn(ctx, itemID, listID)
}
func (s *listRepoStub) ListItems(ctx context.Context, listID uint) ([]models.ListItem, error) {
	return s.listItemsFn(ctx, listID)
}

func noopListRepo() *listRepoStub {
	return &listRepoStub{
		listByUserFn:   func(context.Context, uint, bool, int, int) ([]models.ShoppingList, error) { return nil, nil },
		getByIDFn:      func(context.Context, uint, uint) (*models.ShoppingList, error) { return nil, nil },
		getWithItemsFn: func(context.Context, uint, uint) (*models.ShoppingList, error) { return nil, nil },
		createFn:       func(context.Context, *models.ShoppingList) error { return nil },
		updateFn:       func(context.Context, *models.ShoppingList) error { return nil },
		deleteFn:       func(context.Context, uint, uint) error { return nil },
		addItemFn:      func(context.Context, *models.ListItem) error { return nil },
		getItemFn:      func(context.Context, uint, uint) (*models.ListItem, error) { return nil, nil },
		updateItemFn:   func(context.Context, *models.ListItem) error { return nil },
		deleteItemFn:   func(context.Context, uint, uint) error { return nil },
		listItemsFn:    func(context.Context, uint) ([]models.ListItem, error) { return nil, nil },
	}
}

type purchaseRepoStub struct {
	createFn      func(context.Context, *models.Purchase) error
	getByIDFn     func(context.Context, uint, uint) (*models.Purchase, error)
	listByUserFn  func(context.Context, uint, *time.Time, *time.Time, int, int) ([]models.Purchase, error)
	updateFn      func(context.Context, *models.Purchase) error
	deleteFn      func(context.Context, uint, uint) error
	itemsSinceFn  func(context.Context, uint, time.Time) ([]models.PurchaseItem, error)
	totalsSinceFn func(context.Context, uint, time.Time) (int64, float64, error)
}

func (s *purchaseRepoStub) Create(ctx context.Context, purchase *models.Purchase) error {
	return s.createFn(ctx, purchase)
}
func (s *purchaseRepoStub) GetByID(ctx context.Context, id, userID uint) (*models.Purchase, error) {
	return s.getByIDFn(ctx, id, userID)
}
func (s *purchaseRepoStub) ListByUser(ctx context.Context, userID uint, from, to *time.Time, limit, offset int) ([]models.Purchase, error) {
	return s.listByUserFn(ctx, userID, from, to, limit, offset)
}
func (s *purchaseRepoStub) Update(ctx context.Context, purchase *models.Purchase) error {
	return s.updateFn(ctx, purchase)
}
func (s *purchaseRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}
func (s *purchaseRepoStub) ItemsSince(ctx context.Context, userID uint, since time.Time) ([]models.PurchaseItem, error) {
	return s.itemsSinceFn(ctx, userID, since)
}
func (s *purchaseRepoStub) TotalsSince(ctx context.Context, userID uint, since time.Time) (int64, float64, error) {
	return s.totalsSinceFn(ctx, userID, since)
}

func noopPurchaseRepo() *purchaseRepoStub {
	return &purchaseRepoStub{
		createFn:  func(context.Context, *models.Purchase) error { return nil },
		getByIDFn: func(context.Context, uint, uint) (*models.Purchase, error) { return nil, nil },
		listByUserFn: func(context.Context, uint, *time.Time, *time.Time, int, int) ([]models.Purchase, error) {
			return nil, nil
		},
		updateFn:      func(context.Context, *models.Purchase) error { return nil },
		deleteFn:      func(context.Context, uint, uint) error { return nil },
		itemsSinceFn:  func(context.Context, uint, time.Time) ([]models.PurchaseItem, error) { return nil, nil },
		totalsSinceFn: func(context.Context, uint, time.Time) (int64, float64, error) { return 0, 0, nil },
	}
}

type subscriptionRepoStub struct {
	getActiveByUserFn func(context.Context, uint) (*models.Subscription, error)
	listByUserFn      func(context.Context, uint) ([]models.Subscription, error)
	createFn          func(context.Context, *models.Subscription) error
	updateFn          func(context.Context, *models.Subscription) error
}

func (s *subscriptionRepoStub) GetActiveByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	return s.getActiveByUserFn(ctx, userID)
}
func (s *subscriptionRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Subscription, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *subscriptionRepoStub) Create(ctx context.Context, sub *models.Subscription) error {
	return s.createFn(ctx, sub)
}
func (s *subscriptionRepoStub) Update(ctx context.Context, sub *models.Subscription) error {
	return s.updateFn(ctx, sub)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		getActiveByUserFn: func(context.Context, uint) (*models.Subscription, error) { return nil, nil },
		listByUserFn:      func(context.Context, uint) ([]models.Subscription, error) { return nil, nil },
		createFn:          func(context.Context, *models.Subscription) error { return nil },
		updateFn:          func(context.Context, *models.Subscription) error { return nil },
	}
}
