package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, prefs domain.NotificationPreferences) error
	ListFollowers(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error)
	ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, email, full_name, avatar_url, bio, notification_prefs,
	followers_count, following_count, created_at, updated_at, deleted_at`

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, prefs domain.NotificationPreferences) error {
	query := `
		UPDATE users
		SET notification_prefs = $2, updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, prefs)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListFollowers(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error) {
	return r.listFollows(ctx, userID, "followee_id", "follower_id", params)
}

func (r *userRepository) ListFollowing(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.UserSummary, int64, error) {
	return r.listFollows(ctx, userID, "follower_id", "followee_id", params)
}

// listFollows pages one side of the follows relation: rows where `by` equals
// userID, projected onto the user referenced by `other`.
func (r *userRepository) listFollows(ctx context.Context, userID uuid.UUID, by, other string, params domain.PaginationParams) ([]domain.UserSummary, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM follows WHERE ` + by + ` = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.user_id, u.full_name, u.avatar_url, f.created_at AS since
		FROM follows f
		INNER JOIN users u ON u.user_id = f.` + other + `
		WHERE f.` + by + ` = $1 AND u.deleted_at IS NULL
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	users := []domain.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, userID, params.PageSize, params.Offset())
	return users, total, err
}

func (r *userRepository) ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `SELECT follower_id FROM follows WHERE followee_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}
