package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/domain"
	"inkwell/internal/logger"
	"inkwell/internal/metrics"
	"inkwell/internal/realtime"
	"inkwell/internal/repository"
)

const unreadCacheTTL = 5 * time.Minute

// Pusher delivers a payload-free event to every live session of a user and
// reports how many sessions accepted it.
type Pusher interface {
	Push(userID uuid.UUID, event string) int
}

// Policy controls duplicate suppression. A zero DedupWindow means any earlier
// matching notification suppresses a new one.
type Policy struct {
	DedupEnabled bool
	DedupWindow  time.Duration
}

type Service interface {
	Notify(ctx context.Context, input domain.NotifyInput) (*domain.Notification, error)

	GetByID(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAsUnread(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
}

type service struct {
	notifRepo repository.NotificationRepository
	pusher    Pusher
	redis     *redis.Client
	policy    Policy
	log       logger.Logger
	now       func() time.Time
}

func NewService(
	notifRepo repository.NotificationRepository,
	pusher Pusher,
	redis *redis.Client,
	policy Policy,
	log logger.Logger,
) Service {
	return &service{
		notifRepo: notifRepo,
		pusher:    pusher,
		redis:     redis,
		policy:    policy,
		log:       log.With(logger.String("component", "notification")),
		now:       time.Now,
	}
}

// Notify persists a notification and signals the recipient's live sessions.
// It returns (nil, nil) when the notification was suppressed.
func (s *service) Notify(ctx context.Context, input domain.NotifyInput) (*domain.Notification, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: notification type %q", domain.ErrInvalidInput, input.Type)
	}
	if input.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing recipient", domain.ErrInvalidInput)
	}

	if input.RecipientID == input.SenderID {
		metrics.NotificationsSkippedTotal.WithLabelValues("self").Inc()
		return nil, nil
	}

	if s.policy.DedupEnabled {
		var since time.Time
		if s.policy.DedupWindow > 0 {
			since = s.now().Add(-s.policy.DedupWindow)
		}
		exists, err := s.notifRepo.ExistsSimilar(ctx, input, since)
		if err != nil {
			s.log.Warn("dedup lookup failed, creating anyway",
				logger.Stringer("recipient", input.RecipientID),
				logger.Error(err),
			)
		} else if exists {
			metrics.NotificationsSkippedTotal.WithLabelValues("duplicate").Inc()
			return nil, nil
		}
	}

	notif := &domain.Notification{
		ID:             uuid.New(),
		RecipientID:    input.RecipientID,
		SenderID:       input.SenderID,
		Type:           input.Type,
		Title:          input.Title,
		Message:        input.Message,
		Target:         input.Target,
		RelatedContent: input.RelatedContent,
		Link:           input.Link,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(string(notif.Type)).Inc()

	s.invalidateUnread(ctx, notif.RecipientID)
	s.push(notif.RecipientID)

	return notif, nil
}

func (s *service) push(recipientID uuid.UUID) {
	if s.pusher == nil {
		return
	}
	if delivered := s.pusher.Push(recipientID, realtime.EventNewNotification); delivered > 0 {
		metrics.NotificationPushTotal.WithLabelValues("delivered").Inc()
		return
	}
	// Offline recipients pick the notification up on their next list call.
	metrics.NotificationPushTotal.WithLabelValues("offline").Inc()
	s.log.Debug("recipient offline", logger.Stringer("recipient", recipientID))
}

func (s *service) GetByID(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.GetByID(ctx, id, recipientID)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return notif, nil
}

func (s *service) List(ctx context.Context, recipientID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByRecipient(ctx, recipientID, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

// GetUnreadCount caches the count under a WATCH on the recipient's version
// key. Any write that bumps the version while the count is being read aborts
// the cache fill, so a pre-write count is never stored after the write's
// invalidation.
func (s *service) GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if s.redis == nil {
		return s.notifRepo.CountUnread(ctx, recipientID)
	}

	key := unreadKey(recipientID)
	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return count, nil
		}
	}

	var (
		count int64
		read  bool
		dbErr error
	)
	err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
		count, dbErr = s.notifRepo.CountUnread(ctx, recipientID)
		read = true
		if dbErr != nil {
			return dbErr
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, count, unreadCacheTTL)
			return nil
		})
		return err
	}, unreadVersionKey(recipientID))

	switch {
	case !read:
		s.log.Warn("unread count cache unavailable", logger.Error(err))
		return s.notifRepo.CountUnread(ctx, recipientID)
	case dbErr != nil:
		return 0, dbErr
	case errors.Is(err, redis.TxFailedErr):
		// A concurrent write invalidated the count; leave the cache empty.
	case err != nil:
		s.log.Warn("failed to cache unread count", logger.Error(err))
	}

	return count, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.setRead(ctx, id, recipientID, true)
}

func (s *service) MarkAsUnread(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.setRead(ctx, id, recipientID, false)
}

func (s *service) setRead(ctx context.Context, id, recipientID uuid.UUID, read bool) error {
	if err := s.notifRepo.SetRead(ctx, id, recipientID, read); err != nil {
		return err
	}
	s.invalidateUnread(ctx, recipientID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, recipientID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, recipientID)
	return nil
}

func (s *service) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	if err := s.notifRepo.Delete(ctx, id, recipientID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, recipientID)
	return nil
}

// invalidateUnread bumps the version before dropping the cached count, so an
// in-flight GetUnreadCount cannot write back what it read before this change.
func (s *service) invalidateUnread(ctx context.Context, recipientID uuid.UUID) {
	if s.redis == nil {
		return
	}
	version := unreadVersionKey(recipientID)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, version)
		pipe.Expire(ctx, version, 2*unreadCacheTTL)
		pipe.Del(ctx, unreadKey(recipientID))
		return nil
	})
	if err != nil {
		s.log.Warn("failed to invalidate unread count",
			logger.Stringer("recipient", recipientID),
			logger.Error(err),
		)
	}
}

func unreadKey(recipientID uuid.UUID) string {
	return "notifications:unread:" + recipientID.String()
}

func unreadVersionKey(recipientID uuid.UUID) string {
	return "notifications:unread:version:" + recipientID.String()
}
