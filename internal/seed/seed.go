package seed

import (
	"fmt"
	"log/slog"

	"larder/internal/middleware"
	"larder/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data Run generates.
type Options struct {
	Users             int
	ProductsPerSeed   int
	ListsPerUser      int
	PurchasesPerUser  int
	PurchaseDaysBack  int
	SubscriptionRatio int // one in N users gets a subscription, 0 disables
	SkipBcrypt        bool
	Clean             bool
}

// DefaultOptions returns a small but statistics-friendly data set.
func DefaultOptions() Options {
	return Options{
		Users:             5,
		ProductsPerSeed:   40,
		ListsPerUser:      2,
		PurchasesPerUser:  8,
		PurchaseDaysBack:  60,
		SubscriptionRatio: 2,
	}
}

var defaultCategories = []string{
	"Hortifruti",
	"Padaria",
	"Laticínios",
	"Bebidas",
	"Limpeza",
	"Higiene",
}

// Clean removes all seedable data. Order matters because of foreign keys.
func Clean(db *gorm.DB) error {
	tables := []any{
		&models.PurchaseItem{},
		&models.Purchase{},
		&models.ListItem{},
		&models.ShoppingList{},
		&models.Subscription{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("cleaning %T: %w", table, err)
		}
	}
	return nil
}

// Run populates the database with demo accounts, a product catalog and enough
// purchase history to make statistics and suggestions interesting.
func Run(db *gorm.DB, opts Options) error {
	if opts.Clean {
		if err := Clean(db); err != nil {
			return err
		}
		middleware.Logger.Info("Seed data cleaned")
	}

	factory := NewFactory(db, opts)

	categories := make([]*models.Category, 0, len(defaultCategories))
	for _, name := range defaultCategories {
		category, err := factory.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("creating category %q: %w", name, err)
		}
		categories = append(categories, category)
	}

	products := make([]models.Product, 0, opts.ProductsPerSeed)
	for i := 0; i < opts.ProductsPerSeed; i++ {
		category := categories[i%len(categories)]
		product, err := factory.CreateProduct(category)
		if err != nil {
			return fmt.Errorf("creating product: %w", err)
		}
		products = append(products, *product)
	}

	// A known login for local development.
	admin, err := factory.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@example.com"
		u.FullName = "Admin"
		u.IsSuperuser = true
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	users := []*models.User{admin}
	for i := 0; i < opts.Users; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}

	for i, user := range users {
		for j := 0; j < opts.ListsPerUser; j++ {
			if _, err := factory.CreateList(user, products); err != nil {
				return fmt.Errorf("creating list for %s: %w", user.Username, err)
			}
		}
		for j := 0; j < opts.PurchasesPerUser; j++ {
			if _, err := factory.CreatePurchase(user, products, opts.PurchaseDaysBack); err != nil {
				return fmt.Errorf("creating purchase for %s: %w", user.Username, err)
			}
		}
		if opts.SubscriptionRatio > 0 && i%opts.SubscriptionRatio == 0 {
			plan := models.PlanMonthly
			if i%2 == 0 {
				plan = models.PlanAnnual
			}
			if _, err := factory.CreateSubscription(user, plan); err != nil {
				return fmt.Errorf("creating subscription for %s: %w", user.Username, err)
			}
		}
	}

	middleware.Logger.Info("Seed complete",
		slog.Int("users", len(users)),
		slog.Int("products", len(products)),
		slog.Int("categories", len(categories)),
	)
	return nil
}
