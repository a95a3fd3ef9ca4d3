//go:build !integration

package web

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type mockPlanRepo struct {
	plans map[string]*model.SubscriptionPlan
}

func (m *mockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	var out []*model.SubscriptionPlan
	for _, p := range m.plans {
		if !activeOnly || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockSubRepo struct {
	InsertFunc           func(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error
	FindActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error)
	ExtendActiveFunc     func(ctx context.Context, tx repository.Tx, subID string, days int) (*model.UserSubscription, error)
	CancelActiveFunc     func(ctx context.Context, tx repository.Tx, userID, reason string, at time.Time) (*model.UserSubscription, error)
	ActiveProjectionFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionProjection, error)
	HistoryPageFunc      func(ctx context.Context, tx repository.Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error)
	CountByUserFunc      func(ctx context.Context, tx repository.Tx, userID string) (int, error)
}

func (m *mockSubRepo) Insert(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, sub)
	}
	return nil
}

func (m *mockSubRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, tx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubRepo) ExtendActive(ctx context.Context, tx repository.Tx, subID string, days int) (*model.UserSubscription, error) {
	if m.ExtendActiveFunc != nil {
		return m.ExtendActiveFunc(ctx, tx, subID, days)
	}
	return nil, domain.ErrConflict
}

func (m *mockSubRepo) CancelActive(ctx context.Context, tx repository.Tx, userID, reason string, at time.Time) (*model.UserSubscription, error) {
	if m.CancelActiveFunc != nil {
		return m.CancelActiveFunc(ctx, tx, userID, reason, at)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time, batchSize int) (int, error) {
	return 0, nil
}

func (m *mockSubRepo) ActiveProjection(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionProjection, error) {
	if m.ActiveProjectionFunc != nil {
		return m.ActiveProjectionFunc(ctx, tx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubRepo) HistoryPage(ctx context.Context, tx repository.Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error) {
	if m.HistoryPageFunc != nil {
		return m.HistoryPageFunc(ctx, tx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockSubRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, tx, userID)
	}
	return 0, nil
}

func (m *mockSubRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	return map[model.SubscriptionStatus]int{}, nil
}

func (m *mockSubRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	return map[string]int{}, nil
}
