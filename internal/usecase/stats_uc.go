package usecase

import (
	"context"

	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

// StatsUseCase serves subscription totals for the admin API and the status
// gauge. ActiveByPlan rides the (plan_id, status) index.
type StatsUseCase struct {
	subRepo repository.SubscriptionRepository
}

func NewStatsUseCase(subRepo repository.SubscriptionRepository) *StatsUseCase {
	return &StatsUseCase{subRepo: subRepo}
}

func (uc *StatsUseCase) CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error) {
	return uc.subRepo.CountByStatus(ctx, repository.NoTX)
}

func (uc *StatsUseCase) ActiveByPlan(ctx context.Context) (map[string]int, error) {
	return uc.subRepo.CountActiveByPlan(ctx, repository.NoTX)
}
