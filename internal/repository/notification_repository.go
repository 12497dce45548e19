package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error)
	SetRead(ctx context.Context, id, recipientID uuid.UUID, read bool) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	ExistsSimilar(ctx context.Context, input domain.NotifyInput, since time.Time) (bool, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `notification_id, recipient_id, sender_id, type, title, message,
	target, related_content, link, is_read, read_at, created_at, updated_at`

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, recipient_id, sender_id, type, title, message, target, related_content, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING is_read, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.RecipientID, notif.SenderID, notif.Type, notif.Title, notif.Message,
		notif.Target, notif.RelatedContent, notif.Link,
	).Scan(&notif.IsRead, &notif.CreatedAt, &notif.UpdatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id = $1 AND recipient_id = $2`

	err := r.db.GetContext(ctx, &notif, query, id, recipientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	conds := []string{"recipient_id = $1"}
	args := []interface{}{recipientID}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		conds = append(conds, fmt.Sprintf("is_read = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, notificationColumns, where, len(args)+1, len(args)+2)

	notifications := []domain.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query, append(args, params.PageSize, params.Offset())...)
	return notifications, total, err
}

// SetRead is idempotent: setting the current state again still reports success.
func (r *notificationRepository) SetRead(ctx context.Context, id, recipientID uuid.UUID, read bool) error {
	query := `
		UPDATE notifications
		SET is_read = $3,
			read_at = CASE WHEN $3 THEN COALESCE(read_at, NOW()) ELSE NULL END,
			updated_at = NOW()
		WHERE notification_id = $1 AND recipient_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, recipientID, read)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW(), updated_at = NOW()
		WHERE recipient_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE notification_id = $1 AND recipient_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, recipientID)
	return count, err
}

// ExistsSimilar looks for a notification with the same recipient, sender,
// type and target created at or after since.
func (r *notificationRepository) ExistsSimilar(ctx context.Context, input domain.NotifyInput, since time.Time) (bool, error) {
	var targetID *string
	if input.Target != nil {
		id := input.Target.ID.String()
		targetID = &id
	}

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE recipient_id = $1 AND sender_id = $2 AND type = $3
				AND (target ->> 'id') IS NOT DISTINCT FROM $4
				AND created_at >= $5
		)`
	err := r.db.GetContext(ctx, &exists, query, input.RecipientID, input.SenderID, input.Type, targetID, since)
	return exists, err
}
