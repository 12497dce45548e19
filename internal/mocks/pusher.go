package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Pusher struct {
	mock.Mock
}

func (m *Pusher) Push(userID uuid.UUID, event string) int {
	args := m.Called(userID, event)
	return args.Int(0)
}
