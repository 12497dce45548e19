package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error)
	ListLikes(ctx context.Context, blogID uuid.UUID) ([]domain.Like, error)
	ListBookmarkedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error)
	ListViewedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error)
}

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `b.blog_id, b.author_id, b.title, b.slug, b.content, b.excerpt,
	b.likes_count, b.bookmarks_count, b.views, b.created_at, b.updated_at, b.deleted_at`

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	query := `
		INSERT INTO blogs (blog_id, author_id, title, slug, content, excerpt)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		blog.ID, blog.AuthorID, blog.Title, blog.Slug, blog.Content, blog.Excerpt,
	).Scan(&blog.CreatedAt, &blog.UpdatedAt)
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	var blog domain.Blog
	query := `SELECT ` + blogColumns + ` FROM blogs b WHERE b.blog_id = $1 AND b.deleted_at IS NULL`

	err := r.db.GetContext(ctx, &blog, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE blogs SET deleted_at = NOW() WHERE blog_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM blogs WHERE author_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, authorID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + blogColumns + ` FROM blogs b
		WHERE b.author_id = $1 AND b.deleted_at IS NULL
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	blogs := []domain.Blog{}
	err := r.db.SelectContext(ctx, &blogs, query, authorID, params.PageSize, params.Offset())
	return blogs, total, err
}

func (r *blogRepository) ListLikes(ctx context.Context, blogID uuid.UUID) ([]domain.Like, error) {
	query := `
		SELECT l.user_id, u.full_name, l.created_at
		FROM blog_likes l
		INNER JOIN users u ON u.user_id = l.user_id
		WHERE l.blog_id = $1
		ORDER BY l.created_at ASC`

	likes := []domain.Like{}
	err := r.db.SelectContext(ctx, &likes, query, blogID)
	return likes, err
}

func (r *blogRepository) ListBookmarkedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	return r.listJoined(ctx, "blog_bookmarks", userID, params)
}

func (r *blogRepository) ListViewedByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	return r.listJoined(ctx, "blog_views", userID, params)
}

// listJoined pages the blogs a user is related to through a (blog_id, user_id)
// membership table, newest membership first.
func (r *blogRepository) listJoined(ctx context.Context, table string, userID uuid.UUID, params domain.PaginationParams) ([]domain.Blog, int64, error) {
	params.Validate()

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM ` + table + ` m
		INNER JOIN blogs b ON b.blog_id = m.blog_id
		WHERE m.user_id = $1 AND b.deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + blogColumns + ` FROM ` + table + ` m
		INNER JOIN blogs b ON b.blog_id = m.blog_id
		WHERE m.user_id = $1 AND b.deleted_at IS NULL
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`

	blogs := []domain.Blog{}
	err := r.db.SelectContext(ctx, &blogs, query, userID, params.PageSize, params.Offset())
	return blogs, total, err
}
