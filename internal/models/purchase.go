package models

import "time"

// Purchase is an immutable record of a completed shopping trip. TotalValue is
// fixed at creation time as the sum of its items' line totals; only Location
// and Note may change afterwards.
type Purchase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	ListID       *uint          `json:"list_id,omitempty"`
	PurchaseDate time.Time      `gorm:"index" json:"purchase_date"`
	TotalValue   float64        `gorm:"not null" json:"total_value"`
	Location     string         `json:"location"`
	Note         string         `gorm:"type:text" json:"note"`
	CreatedAt    time.Time      `json:"created_at"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PurchaseItem is a point-in-time snapshot of one purchased line. Category is
// a label copied at creation, deliberately decoupled from live categories.
type PurchaseItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PurchaseID uint      `gorm:"not null;index" json:"purchase_id"`
	ProductID  *uint     `json:"product_id,omitempty"`
	Name       string    `gorm:"not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	TotalPrice float64   `gorm:"not null" json:"total_price"`
	Category   *string   `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurchaseStats aggregates a user's purchases over a trailing window.
type PurchaseStats struct {
	TotalPurchases  int              `json:"total_purchases"`
	TotalSpent      float64          `json:"total_spent"`
	AveragePurchase float64          `json:"average_purchase"`
	TopProducts     []TopProductStat `json:"top_products"`
	WindowDays      int              `json:"window_days"`
}

// TopProductStat is one entry in the most-purchased ranking, keyed by the
// item's display name at purchase time.
type TopProductStat struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	TotalSpent float64 `json:"total_spent"`
}
