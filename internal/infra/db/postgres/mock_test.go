//go:build !integration

package postgres

import (
	"context"
	"time"

	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
	red "subscription-api/internal/infra/redis"
)

// mockInnerPlanRepo mocks the database repository that the plan cache
// decorator wraps.
type mockInnerPlanRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error)
	ListFunc     func(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.SubscriptionPlan, error)
}

var _ repository.SubscriptionPlanRepository = (*mockInnerPlanRepo)(nil)

func (m *mockInnerPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	return m.SaveFunc(ctx, tx, plan)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	return m.ListFunc(ctx, tx, activeOnly)
}

type mockRedisClient struct {
	PingFunc  func(ctx context.Context) error
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc   func(ctx context.Context, key string) (string, error)
	DelFunc   func(ctx context.Context, keys ...string) error
	CloseFunc func() error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
