package mocks

import (
	"context"
	"inkwell/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type InteractionService struct {
	mock.Mock
}

func (m *InteractionService) Apply(ctx context.Context, action domain.Action, actorID, targetID uuid.UUID) (*domain.InteractionResult, error) {
	args := m.Called(ctx, action, actorID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InteractionResult), args.Error(1)
}
