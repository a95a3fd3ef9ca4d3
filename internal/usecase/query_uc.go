package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

// QueryUseCase serves the latency-sensitive read paths. Both return flat
// projections; neither materializes linked entities.
type QueryUseCase struct {
	subRepo         repository.SubscriptionRepository
	defaultPageSize int
	maxPageSize     int
	log             *zerolog.Logger
}

func NewQueryUseCase(subRepo repository.SubscriptionRepository, defaultPageSize, maxPageSize int, logger *zerolog.Logger) *QueryUseCase {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = 100
	}
	ucLog := logger.With().Str("component", "QueryUseCase").Logger()
	return &QueryUseCase{
		subRepo:         subRepo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		log:             &ucLog,
	}
}

// Active returns the user's active subscription joined with plan display
// attributes, or ErrNotFound when there is none.
func (uc *QueryUseCase) Active(ctx context.Context, userID string) (*model.SubscriptionProjection, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subRepo.ActiveProjection(ctx, repository.NoTX, userID)
}

// History returns one page of the user's subscription history, newest start
// first, plus a total count. The count comes from a separate narrow query so
// the join/sort never runs once per counted row.
func (uc *QueryUseCase) History(ctx context.Context, userID string, page, pageSize int) (*model.HistoryPage, error) {
	if userID == "" || page < 1 || pageSize < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if pageSize == 0 {
		pageSize = uc.defaultPageSize
	}
	if pageSize > uc.maxPageSize {
		pageSize = uc.maxPageSize
	}

	offset := (page - 1) * pageSize
	items, err := uc.subRepo.HistoryPage(ctx, repository.NoTX, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.subRepo.CountByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}

	pages := 0
	if total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return &model.HistoryPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}, nil
}
