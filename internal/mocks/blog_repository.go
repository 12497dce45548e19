package mocks

import (
	"context"
	"inkwell/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type BlogRepository struct {
	mock.Mock
}

func (m *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Blog), args.Error(1)
}

func (m *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BlogRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	args := m.Called(ctx, authorID, params)
	return args.Get(0).([]domain.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *BlogRepository) ListLikes(ctx context.Context, blogID uuid.UUID) ([]domain.Like, error) {
	args := m.Called(ctx, blogID)
	return args.Get(0).([]domain.Like), args.Error(1)
}

func (m *BlogRepository) ListBookmarkedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *BlogRepository) ListViewedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.Blog), args.Get(1).(int64), args.Error(2)
}
