package database

import "larder/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ShoppingList{},
		&models.ListItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Subscription{},
	}
}
