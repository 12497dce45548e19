//go:build integration
// +build integration

package notification_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkwell/internal/logger"
	"inkwell/internal/mocks"
	"inkwell/internal/service/notification"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	require.NoError(t, rdb.Ping(context.Background()).Err(), "Redis not ready")
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestService_GetUnreadCount_Cache(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	t.Run("Serves repeated reads from cache", func(t *testing.T) {
		recipient := uuid.New()
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil, rdb, notification.Policy{}, logger.Nop())

		repo.On("CountUnread", mock.Anything, recipient).Return(int64(4), nil).Once()

		for i := 0; i < 3; i++ {
			count, err := svc.GetUnreadCount(ctx, recipient)
			require.NoError(t, err)
			assert.Equal(t, int64(4), count)
		}
		repo.AssertExpectations(t)
	})

	t.Run("A write during the read keeps the old count out of cache", func(t *testing.T) {
		recipient := uuid.New()
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil, rdb, notification.Policy{}, logger.Nop())

		repo.On("MarkAllAsRead", mock.Anything, recipient).Return(nil).Once()
		repo.On("CountUnread", mock.Anything, recipient).Return(int64(3), nil).Once().Run(func(args mock.Arguments) {
			// The recipient clears their inbox after the count was read.
			require.NoError(t, svc.MarkAllAsRead(context.Background(), recipient))
		})
		repo.On("CountUnread", mock.Anything, recipient).Return(int64(0), nil).Once()

		count, err := svc.GetUnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = svc.GetUnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		repo.AssertExpectations(t)
	})

	t.Run("Mutations invalidate the cached count", func(t *testing.T) {
		recipient := uuid.New()
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil, rdb, notification.Policy{}, logger.Nop())

		repo.On("CountUnread", mock.Anything, recipient).Return(int64(2), nil).Once()
		repo.On("MarkAllAsRead", mock.Anything, recipient).Return(nil).Once()
		repo.On("CountUnread", mock.Anything, recipient).Return(int64(0), nil).Once()

		count, err := svc.GetUnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		require.NoError(t, svc.MarkAllAsRead(ctx, recipient))

		count, err = svc.GetUnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
		repo.AssertExpectations(t)
	})
}
