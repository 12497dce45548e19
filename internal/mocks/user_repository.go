package mocks

import (
	"context"
	"inkwell/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, prefs domain.NotificationPreferences) error {
	args := m.Called(ctx, id, prefs)
	return args.Error(0)
}

func (m *UserRepository) ListFollowers(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.UserSummary), args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) ListFollowing(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.UserSummary), args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
