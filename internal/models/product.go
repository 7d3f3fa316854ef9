package models

import "time"

// DefaultMinStock is the low-stock threshold used when a product has no
// explicit MinStock configured.
const DefaultMinStock = 5

// Product is an inventory entry. Stock is only ever adjusted through explicit
// operations (manual edits and list finalization), never recomputed from
// purchase history.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"default:0" json:"stock_quantity"`
	MinStock      *int      `json:"min_stock,omitempty"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Barcode       *string   `gorm:"uniqueIndex" json:"barcode,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LowStock reports whether on-hand quantity is at or below the product's
// threshold (MinStock, or DefaultMinStock when unset).
func (p *Product) LowStock() bool {
	threshold := DefaultMinStock
	if p.MinStock != nil {
		threshold = *p.MinStock
	}
	return p.StockQuantity <= threshold
}
