package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

// PlanUseCase exposes the read-mostly plan catalog. Create exists for
// seeding and catalog tooling; the lifecycle engine never writes plans.
type PlanUseCase struct {
	repo repository.SubscriptionPlanRepository
}

func NewPlanUseCase(repo repository.SubscriptionPlanRepository) *PlanUseCase {
	return &PlanUseCase{repo: repo}
}

func (uc *PlanUseCase) Create(ctx context.Context, name, description string, price decimal.Decimal, durationDays int, features string) (*model.SubscriptionPlan, error) {
	plan, err := model.NewSubscriptionPlan(uuid.NewString(), name, price, durationDays, features)
	if err != nil {
		return nil, err
	}
	plan.Description = description
	if err := uc.repo.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Get retrieves a plan by ID.
func (uc *PlanUseCase) Get(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

// List returns plans, optionally only active ones.
func (uc *PlanUseCase) List(ctx context.Context, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	return uc.repo.List(ctx, repository.NoTX, activeOnly)
}
