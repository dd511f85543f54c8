package models

import "time"

// SubscriptionPlan is the commercial plan of a user.
type SubscriptionPlan string

const (
	// SubscriptionPlanFree is the default plan every user starts on.
	SubscriptionPlanFree SubscriptionPlan = "free"
	// SubscriptionPlanPremium unlocks video communication.
	SubscriptionPlanPremium SubscriptionPlan = "premium"
)

// SubscriptionStatus is the billing status of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
)

// Subscription is the per-user commercial ledger row. Exactly one row exists
// per user; it is created lazily as free/active on first query.
type Subscription struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    uint               `gorm:"uniqueIndex;not null" json:"user_id"`
	Plan      SubscriptionPlan   `gorm:"type:varchar(20);default:'free'" json:"plan"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   *time.Time         `json:"end_date,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActivePremium reports whether the row satisfies the active-premium predicate.
func (s *Subscription) IsActivePremium() bool {
	return s != nil && s.Plan == SubscriptionPlanPremium && s.Status == SubscriptionStatusActive
}
