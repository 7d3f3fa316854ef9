package models

import "time"

// ShoppingList is a user-owned list of items to buy. Finalizing a list turns
// its purchased items into a Purchase and marks the list completed.
type ShoppingList struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []ListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ListItem is one line in a shopping list. Name is free text and may diverge
// from the linked product's name.
type ListItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ListID         uint      `gorm:"not null;index" json:"list_id"`
	ProductID      *uint     `json:"product_id,omitempty"`
	Product        *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Name           string    `gorm:"not null" json:"name"`
	Quantity       int       `gorm:"default:1" json:"quantity"`
	Purchased      bool      `gorm:"default:false" json:"purchased"`
	EstimatedPrice *float64  `json:"estimated_price,omitempty"`
	Note           string    `gorm:"type:text" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListSummary is a read-only projection over a list and its items. It is
// computed on demand and never persisted.
type ListSummary struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Completed      bool      `json:"completed"`
	TotalItems     int       `json:"total_items"`
	PurchasedItems int       `json:"purchased_items"`
	EstimatedTotal float64   `json:"estimated_total"`
	CreatedAt      time.Time `json:"created_at"`
}
