package model

import (
	"time"

	"subscription-api/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// UserSubscription represents a user's individual subscription instance.
// A subscription enters life as active and only ever leaves to expired
// (time-based) or cancelled (explicit); it never re-enters active.
type UserSubscription struct {
	ID                 string // UUID
	UserID             string
	PlanID             string // UUID of plan
	StartAt            time.Time
	EndAt              time.Time
	Status             SubscriptionStatus
	AutoRenew          bool
	CancellationReason string
	CreatedAt          time.Time
}

// NewUserSubscription creates a new active subscription for a user,
// running from now until now + plan duration.
func NewUserSubscription(id, userID string, plan *SubscriptionPlan, now time.Time) (*UserSubscription, error) {
	if id == "" || userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if plan.DurationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &UserSubscription{
		ID:        id,
		UserID:    userID,
		PlanID:    plan.ID,
		StartAt:   now,
		EndAt:     now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		Status:    SubscriptionStatusActive,
		AutoRenew: true,
		CreatedAt: now,
	}, nil
}

// IsTerminal reports whether the status admits no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}

// CanTransitionTo enforces the monotonic state machine:
// active -> {expired, cancelled}, nothing else.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	return s == SubscriptionStatusActive && next.IsTerminal()
}
