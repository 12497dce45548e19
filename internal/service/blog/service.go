package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/domain"
	"inkwell/internal/logger"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/repository"
	"inkwell/internal/service/notification"
)

const (
	cacheTTL      = 5 * time.Minute
	summaryLength = 140
)

// Fan-out budgets. Each follower gets its own notify deadline so one slow
// delivery cannot starve the rest of a large follower list.
var (
	followerListTimeout = 10 * time.Second
	notifyTimeout       = 5 * time.Second
)

type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, input domain.CreateBlogInput) (*domain.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error)
	ListLikes(ctx context.Context, id uuid.UUID) ([]domain.Like, error)
}

type service struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	notifSvc notification.Service
	messages *i18n.Catalog
	redis    *redis.Client
	log      logger.Logger
}

func NewService(
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	messages *i18n.Catalog,
	redis *redis.Client,
	log logger.Logger,
) Service {
	return &service{
		blogRepo: blogRepo,
		userRepo: userRepo,
		notifSvc: notifSvc,
		messages: messages,
		redis:    redis,
		log:      log.With(logger.String("component", "blog")),
	}
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input domain.CreateBlogInput) (*domain.Blog, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, domain.ErrUserNotFound
	}

	b := &domain.Blog{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Content:  input.Content,
		Excerpt:  strings.TrimSpace(input.Excerpt),
	}
	b.Slug = slugify(title) + "-" + b.ID.String()[:8]

	if err := s.blogRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	go s.notifyFollowers(author, b)

	return b, nil
}

// notifyFollowers fans a "blog" notification out to every current follower
// of the author. Publication notifications carry no preference gate.
func (s *service) notifyFollowers(author *domain.User, b *domain.Blog) {
	listCtx, cancel := context.WithTimeout(context.Background(), followerListTimeout)
	followerIDs, err := s.userRepo.ListFollowerIDs(listCtx, author.ID)
	cancel()
	if err != nil {
		s.log.Error("failed to list followers for fan-out",
			logger.Stringer("blog", b.ID),
			logger.Error(err),
		)
		return
	}

	args := map[string]string{"actor": author.FullName, "title": b.Title}
	input := domain.NotifyInput{
		SenderID: author.ID,
		Type:     domain.NotifBlog,
		Target:   &domain.Target{ID: b.ID, Type: domain.TargetBlog},
		Title:    s.messages.Render("blog.title", args),
		Message:  s.messages.Render("blog.message", args),
		Link:     b.Link(),
		RelatedContent: &domain.RelatedContent{
			Type:    string(domain.TargetBlog),
			Title:   b.Title,
			Content: b.Summary(summaryLength),
		},
	}

	for _, followerID := range followerIDs {
		input.RecipientID = followerID
		if err := s.notifyFollower(input); err != nil {
			s.log.Error("failed to notify follower",
				logger.Stringer("blog", b.ID),
				logger.Stringer("recipient", followerID),
				logger.Error(err),
			)
		}
	}
}

func (s *service) notifyFollower(input domain.NotifyInput) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	_, err := s.notifSvc.Notify(ctx, input)
	return err
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	key := CacheKey(id)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var b domain.Blog
			if json.Unmarshal([]byte(cached), &b) == nil {
				return &b, nil
			}
		}
	}

	b, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBlogNotFound
	}

	if s.redis != nil {
		if data, err := json.Marshal(b); err == nil {
			_ = s.redis.Set(ctx, key, data, cacheTTL).Err()
		}
	}

	return b, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	b, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrBlogNotFound
	}
	if b.AuthorID != userID {
		return domain.ErrForbidden
	}

	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return err
	}
	Invalidate(ctx, s.redis, id)
	return nil
}

func (s *service) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error) {
	blogs, total, err := s.blogRepo.ListByAuthor(ctx, authorID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Blog]{}, err
	}

	return domain.NewPaginatedResponse(blogs, params.Page, params.PageSize, total), nil
}

func (s *service) ListLikes(ctx context.Context, id uuid.UUID) ([]domain.Like, error) {
	b, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBlogNotFound
	}
	return s.blogRepo.ListLikes(ctx, id)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "post"
	}
	return slug
}
