//go:build !integration

package usecase_test

import (
	"context"
	"sync"
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

// MockTxManager runs the callback without a real transaction.
type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// MockPlanRepo is a map-backed plan repository.
type MockPlanRepo struct {
	mu           sync.Mutex
	plans        map[string]*model.SubscriptionPlan
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error)
}

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{plans: make(map[string]*model.SubscriptionPlan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockPlanRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SubscriptionPlan
	for _, p := range m.plans {
		if !activeOnly || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockSubscriptionRepo lets each test override exactly the methods it needs.
// Unset funcs behave like an empty store.
type MockSubscriptionRepo struct {
	InsertFunc            func(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error
	FindActiveByUserFunc  func(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error)
	ExtendActiveFunc      func(ctx context.Context, tx repository.Tx, subID string, days int) (*model.UserSubscription, error)
	CancelActiveFunc      func(ctx context.Context, tx repository.Tx, userID, reason string, at time.Time) (*model.UserSubscription, error)
	ExpireDueFunc         func(ctx context.Context, tx repository.Tx, now time.Time, batchSize int) (int, error)
	ActiveProjectionFunc  func(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionProjection, error)
	HistoryPageFunc       func(ctx context.Context, tx repository.Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error)
	CountByUserFunc       func(ctx context.Context, tx repository.Tx, userID string) (int, error)
	CountByStatusFunc     func(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error)
	CountActiveByPlanFunc func(ctx context.Context, tx repository.Tx) (map[string]int, error)
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo { return &MockSubscriptionRepo{} }

func (m *MockSubscriptionRepo) Insert(ctx context.Context, tx repository.Tx, sub *model.UserSubscription) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, sub)
	}
	return nil
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, tx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ExtendActive(ctx context.Context, tx repository.Tx, subID string, days int) (*model.UserSubscription, error) {
	if m.ExtendActiveFunc != nil {
		return m.ExtendActiveFunc(ctx, tx, subID, days)
	}
	return nil, domain.ErrConflict
}

func (m *MockSubscriptionRepo) CancelActive(ctx context.Context, tx repository.Tx, userID, reason string, at time.Time) (*model.UserSubscription, error) {
	if m.CancelActiveFunc != nil {
		return m.CancelActiveFunc(ctx, tx, userID, reason, at)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time, batchSize int) (int, error) {
	if m.ExpireDueFunc != nil {
		return m.ExpireDueFunc(ctx, tx, now, batchSize)
	}
	return 0, nil
}

func (m *MockSubscriptionRepo) ActiveProjection(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionProjection, error) {
	if m.ActiveProjectionFunc != nil {
		return m.ActiveProjectionFunc(ctx, tx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) HistoryPage(ctx context.Context, tx repository.Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error) {
	if m.HistoryPageFunc != nil {
		return m.HistoryPageFunc(ctx, tx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockSubscriptionRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, tx, userID)
	}
	return 0, nil
}

func (m *MockSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, tx)
	}
	return map[model.SubscriptionStatus]int{}, nil
}

func (m *MockSubscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	if m.CountActiveByPlanFunc != nil {
		return m.CountActiveByPlanFunc(ctx, tx)
	}
	return map[string]int{}, nil
}
