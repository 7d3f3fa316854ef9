// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account in the Larder application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Password    string         `gorm:"not null" json:"-"`
	FullName    string         `json:"full_name"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsSuperuser bool           `gorm:"default:false" json:"is_superuser"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Lists       []ShoppingList `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
	Purchases   []Purchase     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"purchases,omitempty"`
}
