package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionProjection is a flat read result combining a subscription row
// with the display attributes of its plan. Read paths return this instead of
// materializing linked entities.
type SubscriptionProjection struct {
	SubscriptionID string             `json:"subscription_id"`
	UserID         string             `json:"user_id"`
	PlanID         string             `json:"plan_id"`
	StartAt        time.Time          `json:"start_at"`
	EndAt          time.Time          `json:"end_at"`
	Status         SubscriptionStatus `json:"status"`
	AutoRenew      bool               `json:"auto_renew"`
	CreatedAt      time.Time          `json:"created_at"`

	PlanName         string          `json:"plan_name"`
	PlanPrice        decimal.Decimal `json:"plan_price"`
	PlanDurationDays int             `json:"plan_duration_days"`
	PlanFeatures     string          `json:"plan_features,omitempty"`
}

// HistoryPage is one page of a user's subscription history plus pagination
// metadata. Total is counted by a separate narrow query.
type HistoryPage struct {
	Items    []*SubscriptionProjection `json:"items"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Pages    int                       `json:"pages"`
}
