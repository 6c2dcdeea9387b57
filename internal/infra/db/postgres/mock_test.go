//go:build !integration

package postgres

import (
	"context"
	"time"

	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
	red "projectnest/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPackRepo mocks the database repository that the pack decorator wraps.
type mockInnerPackRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, p *model.PremiumPack) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.PremiumPack, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.PremiumPack, error)
}

func (m *mockInnerPackRepo) Save(ctx context.Context, tx repository.Tx, p *model.PremiumPack) error {
	return m.SaveFunc(ctx, tx, p)
}
func (m *mockInnerPackRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PremiumPack, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPackRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PremiumPack, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
