package repository

import (
	"context"

	"subscription-api/internal/domain/model"
)

// SubscriptionPlanRepository is the port for plan catalog persistence.
// The catalog is read-mostly; Save exists for seeding and catalog tooling.
type SubscriptionPlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.SubscriptionPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	List(ctx context.Context, tx Tx, activeOnly bool) ([]*model.SubscriptionPlan, error)
}
