package repository

import (
	"context"
	"testing"
	"time"

	"larder/internal/cache"
	"larder/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPurchase(t *testing.T, repo PurchaseRepository, userID uint, when time.Time, items ...models.PurchaseItem) *models.Purchase {
	t.Helper()

	total := 0.0
	for _, it := range items {
		total += it.TotalPrice
	}
	purchase := &models.Purchase{
		UserID:       userID,
		PurchaseDate: when,
		TotalValue:   total,
		Items:        items,
	}
	require.NoError(t, repo.Create(context.Background(), purchase))
	return purchase
}

func TestPurchaseRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	purchase := createTestPurchase(t, repo, user.ID, time.Now(),
		models.PurchaseItem{Name: "Arroz", Quantity: 2, UnitPrice: 5, TotalPrice: 10},
		models.PurchaseItem{Name: "Feijao", Quantity: 1, UnitPrice: 8, TotalPrice: 8},
	)

	got, err := repo.GetByID(ctx, purchase.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 18.0, got.TotalValue)

	// Cross-user access resolves as not found.
	other := createTestUser(t, db, "other")
	_, err = repo.GetByID(ctx, purchase.ID, other.ID)
	assert.Error(t, err)
}

func TestPurchaseRepository_ListByUserDateRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	now := time.Now()

	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -40),
		models.PurchaseItem{Name: "Old", Quantity: 1, UnitPrice: 1, TotalPrice: 1})
	recent := createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -5),
		models.PurchaseItem{Name: "Recent", Quantity: 1, UnitPrice: 2, TotalPrice: 2})

	from := now.AddDate(0, 0, -30)
	purchases, err := repo.ListByUser(ctx, user.ID, &from, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, recent.ID, purchases[0].ID)

	purchases, err = repo.ListByUser(ctx, user.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, purchases, 2)
}

func TestPurchaseRepository_ItemsSinceOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	now := time.Now()

	// Insert the later purchase first to prove ordering follows purchase date.
	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -1),
		models.PurchaseItem{Name: "Second", Quantity: 1, UnitPrice: 1, TotalPrice: 1})
	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -10),
		models.PurchaseItem{Name: "First", Quantity: 1, UnitPrice: 1, TotalPrice: 1})

	items, err := repo.ItemsSince(ctx, user.ID, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Name)
	assert.Equal(t, "Second", items[1].Name)
}

func TestPurchaseRepository_TotalsSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	now := time.Now()

	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -40),
		models.PurchaseItem{Name: "Old", Quantity: 1, UnitPrice: 100, TotalPrice: 100})
	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -3),
		models.PurchaseItem{Name: "A", Quantity: 1, UnitPrice: 10, TotalPrice: 10})
	createTestPurchase(t, repo, user.ID, now.AddDate(0, 0, -2),
		models.PurchaseItem{Name: "B", Quantity: 1, UnitPrice: 20, TotalPrice: 20})

	count, total, err := repo.TotalsSince(ctx, user.ID, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 30.0, total)

	// Empty window
	count, total, err = repo.TotalsSince(ctx, user.ID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0.0, total)
}

func TestPurchaseRepository_InvalidatesStatsCache(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	user := createTestUser(t, db, "buyer")
	key := cache.StatsKey(user.ID, 30)
	require.NoError(t, cache.SetJSON(ctx, key, models.PurchaseStats{TotalPurchases: 1}, cache.StatsTTL))

	purchase := createTestPurchase(t, repo, user.ID, time.Now(),
		models.PurchaseItem{Name: "Arroz", Quantity: 1, UnitPrice: 5, TotalPrice: 5})

	var cached models.PurchaseStats
	found, err := cache.GetJSON(ctx, key, &cached)
	require.NoError(t, err)
	assert.False(t, found, "stats dropped on create")

	require.NoError(t, cache.SetJSON(ctx, key, models.PurchaseStats{TotalPurchases: 2}, cache.StatsTTL))
	require.NoError(t, repo.Delete(ctx, purchase.ID, user.ID))

	found, err = cache.GetJSON(ctx, key, &cached)
	require.NoError(t, err)
	assert.False(t, found, "stats dropped on delete")
}

func TestPurchaseRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "buyer")
	purchase := createTestPurchase(t, repo, user.ID, time.Now(),
		models.PurchaseItem{Name: "Arroz", Quantity: 1, UnitPrice: 5, TotalPrice: 5})

	require.NoError(t, repo.Delete(ctx, purchase.ID, user.ID))
	_, err := repo.GetByID(ctx, purchase.ID, user.ID)
	assert.Error(t, err)
}
