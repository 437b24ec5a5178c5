package service

import (
	"Planzo/internal/model"
	"Planzo/internal/repo"
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// мок для repo.ColumnRepository
type mockColumnRepo struct{ mock.Mock }

func (m *mockColumnRepo) ListByUser(ctx context.Context, userID int64) ([]model.Column, error) {
	args := m.Called(ctx, userID)
	cols, _ := args.Get(0).([]model.Column)
	return cols, args.Error(1)
}

func (m *mockColumnRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Column, error) {
	args := m.Called(ctx, userID, id)
	if c, ok := args.Get(0).(*model.Column); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockColumnRepo) Count(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockColumnRepo) Create(ctx context.Context, c *model.Column) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockColumnRepo) UpdatePosition(ctx context.Context, userID int64, id string, position int) error {
	return m.Called(ctx, userID, id, position).Error(0)
}

func (m *mockColumnRepo) Delete(ctx context.Context, userID int64, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockColumnRepo) ReassignAndDelete(ctx context.Context, userID int64, id, targetID string) (int64, error) {
	args := m.Called(ctx, userID, id, targetID)
	return args.Get(0).(int64), args.Error(1)
}

// мок для repo.ItemRepository
type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) ListByUser(ctx context.Context, userID int64, saved *bool) ([]model.Item, error) {
	args := m.Called(ctx, userID, saved)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *mockItemRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Item, error) {
	args := m.Called(ctx, userID, id)
	if it, ok := args.Get(0).(*model.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) Create(ctx context.Context, it *model.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItemRepo) UpdateStatus(ctx context.Context, userID int64, id, status string) error {
	return m.Called(ctx, userID, id, status).Error(0)
}

func (m *mockItemRepo) UpdateSaved(ctx context.Context, userID int64, id string, saved bool) error {
	return m.Called(ctx, userID, id, saved).Error(0)
}

func (m *mockItemRepo) UpdateCalendarDate(ctx context.Context, userID int64, id string, date *time.Time) error {
	return m.Called(ctx, userID, id, date).Error(0)
}

var (
	_ repo.ColumnRepository = (*mockColumnRepo)(nil)
	_ repo.ItemRepository   = (*mockItemRepo)(nil)
)

// recorder запоминает опубликованные события.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(_ int64, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
