package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBlog(ctx context.Context, blogID uuid.UUID, params domain.PaginationParams) ([]domain.Comment, int64, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (comment_id, blog_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.BlogID, comment.UserID, comment.ParentID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	query := `
		SELECT comment_id, blog_id, user_id, parent_id, content, created_at, updated_at, deleted_at
		FROM comments WHERE comment_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE comment_id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.Content,
	).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE comments SET deleted_at = NOW() WHERE comment_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *commentRepository) ListByBlog(ctx context.Context, blogID uuid.UUID, params domain.PaginationParams) ([]domain.Comment, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM comments WHERE blog_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, blogID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			c.comment_id, c.blog_id, c.user_id, c.parent_id, c.content, c.created_at, c.updated_at,
			u.full_name AS author_full_name, u.avatar_url AS author_avatar_url
		FROM comments c
		INNER JOIN users u ON c.user_id = u.user_id
		WHERE c.blog_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, blogID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		c := row.Comment
		c.User = &domain.CommentUser{
			ID:        c.UserID,
			FullName:  row.AuthorFullName,
			AvatarURL: row.AuthorAvatarURL,
		}
		comments = append(comments, c)
	}

	return comments, total, nil
}

// commentRow is a comment joined with its author's display fields.
type commentRow struct {
	domain.Comment
	AuthorFullName  string  `db:"author_full_name"`
	AuthorAvatarURL *string `db:"author_avatar_url"`
}
