package mocks

import (
	"context"
	"inkwell/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, recipientID, filter, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) SetRead(ctx context.Context, id, recipientID uuid.UUID, read bool) error {
	args := m.Called(ctx, id, recipientID, read)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

func (m *NotificationRepository) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) ExistsSimilar(ctx context.Context, input domain.NotifyInput, since time.Time) (bool, error) {
	args := m.Called(ctx, input, since)
	return args.Bool(0), args.Error(1)
}
