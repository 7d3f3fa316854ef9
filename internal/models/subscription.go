package models

import "time"

// Subscription plans and statuses.
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription is a plan record gating premium behavior. Annual plans carry a
// computed end date (start + 365 days); monthly plans are open-ended.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Plan      string     `gorm:"not null" json:"plan"`
	Status    string     `gorm:"not null" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
