package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Blog struct {
	ID             uuid.UUID  `json:"id" db:"blog_id"`
	AuthorID       uuid.UUID  `json:"author_id" db:"author_id"`
	Title          string     `json:"title" db:"title"`
	Slug           string     `json:"slug" db:"slug"`
	Content        string     `json:"content" db:"content"`
	Excerpt        string     `json:"excerpt" db:"excerpt"`
	LikesCount     int64      `json:"likes_count" db:"likes_count"`
	BookmarksCount int64      `json:"bookmarks_count" db:"bookmarks_count"`
	Views          int64      `json:"views" db:"views"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"-" db:"deleted_at"`

	Author *UserSummary `json:"author,omitempty" db:"-"`
}

// Like is one entry of a blog's ordered likes collection.
type Like struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateBlogInput struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
	Excerpt string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
}

func (b *Blog) Link() string {
	return "/blogs/" + b.Slug
}

// Summary returns the excerpt, or the first n runes of the content when no
// excerpt was written.
func (b *Blog) Summary(n int) string {
	if b.Excerpt != "" {
		return b.Excerpt
	}
	content := strings.TrimSpace(b.Content)
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return string([]rune(content)[:n]) + "..."
}
