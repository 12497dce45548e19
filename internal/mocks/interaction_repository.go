package mocks

import (
	"context"
	"inkwell/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type InteractionRepository struct {
	mock.Mock
}

func (m *InteractionRepository) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	args := m.Called(ctx, blogID, userID)
	return args.Get(0).(domain.ToggleOutcome), args.Error(1)
}

func (m *InteractionRepository) ToggleBookmark(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	args := m.Called(ctx, blogID, userID)
	return args.Get(0).(domain.ToggleOutcome), args.Error(1)
}

func (m *InteractionRepository) ToggleFollow(ctx context.Context, followerID, followeeID uuid.UUID) (domain.ToggleOutcome, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Get(0).(domain.ToggleOutcome), args.Error(1)
}

func (m *InteractionRepository) RecordView(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	args := m.Called(ctx, blogID, userID)
	return args.Get(0).(domain.ToggleOutcome), args.Error(1)
}
