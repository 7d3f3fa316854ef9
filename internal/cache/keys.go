package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	ProductKeyPrefix  = "product:%d"
	LowStockKey       = "products:lowstock"
	StatsKeyPrefix    = "stats:%d:%d"
	ListItemsKeyFmt   = "list:%d:items"
	CategoriesListKey = "categories:all"
)

const (
	UserTTL       = 5 * time.Minute
	ProductTTL    = 10 * time.Minute
	LowStockTTL   = time.Minute
	StatsTTL      = 2 * time.Minute
	CategoriesTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProductKey(productID uint) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

// StatsKey identifies cached purchase statistics per user and trailing window.
func StatsKey(userID uint, windowDays int) string {
	return fmt.Sprintf(StatsKeyPrefix, userID, windowDays)
}

func ListItemsKey(listID uint) string {
	return fmt.Sprintf(ListItemsKeyFmt, listID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProduct drops the product entry plus the low stock snapshot,
// which depends on every product's stock level.
func InvalidateProduct(ctx context.Context, productID uint) {
	Invalidate(ctx, ProductKey(productID))
	Invalidate(ctx, LowStockKey)
}

// InvalidateStats drops every cached statistics window for the user, so new
// purchases show up immediately.
func InvalidateStats(ctx context.Context, userID uint) {
	if client == nil {
		return
	}
	pattern := fmt.Sprintf("stats:%d:*", userID)
	keys, err := client.Keys(ctx, pattern).Result()
	if err != nil {
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesListKey)
}

func InvalidateList(ctx context.Context, listID uint) {
	Invalidate(ctx, ListItemsKey(listID))
}
