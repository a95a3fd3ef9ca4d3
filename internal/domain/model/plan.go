package model

import (
	"time"

	"github.com/shopspring/decimal"

	"subscription-api/internal/domain"
)

// SubscriptionPlan is read-mostly catalog data: a purchasable plan with a
// fixed duration and price. Existing subscriptions keep referencing a plan
// even after it is deactivated.
type SubscriptionPlan struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	DurationDays int
	Features     string // opaque structured data, stored as-is
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewSubscriptionPlan validates and constructs a plan.
func NewSubscriptionPlan(id, name string, price decimal.Decimal, durationDays int, features string) (*SubscriptionPlan, error) {
	if id == "" || name == "" || durationDays <= 0 || price.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &SubscriptionPlan{
		ID:           id,
		Name:         name,
		Price:        price,
		DurationDays: durationDays,
		Features:     features,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
