package interaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/domain"
	"inkwell/internal/logger"
	"inkwell/internal/metrics"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/repository"
	"inkwell/internal/service/blog"
	"inkwell/internal/service/notification"
)

const summaryLength = 140

// Service applies like, bookmark, follow and view actions and emits the
// notifications they imply.
type Service interface {
	Apply(ctx context.Context, action domain.Action, actorID, targetID uuid.UUID) (*domain.InteractionResult, error)
}

type service struct {
	interactionRepo repository.InteractionRepository
	blogRepo        repository.BlogRepository
	userRepo        repository.UserRepository
	notifSvc        notification.Service
	messages        *i18n.Catalog
	redis           *redis.Client
	log             logger.Logger
}

func NewService(
	interactionRepo repository.InteractionRepository,
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	messages *i18n.Catalog,
	redis *redis.Client,
	log logger.Logger,
) Service {
	return &service{
		interactionRepo: interactionRepo,
		blogRepo:        blogRepo,
		userRepo:        userRepo,
		notifSvc:        notifSvc,
		messages:        messages,
		redis:           redis,
		log:             log.With(logger.String("component", "interaction")),
	}
}

func (s *service) Apply(ctx context.Context, action domain.Action, actorID, targetID uuid.UUID) (*domain.InteractionResult, error) {
	action, err := domain.ParseAction(string(action))
	if err != nil {
		return nil, err
	}
	if targetID == uuid.Nil {
		return nil, domain.ErrMissingTarget
	}
	if action == domain.ActionFollow && actorID == targetID {
		return nil, domain.ErrCannotFollowSelf
	}

	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var result *domain.InteractionResult
	switch action {
	case domain.ActionLike:
		result, err = s.like(ctx, actor, targetID)
	case domain.ActionBookmark:
		result, err = s.bookmark(ctx, actor, targetID)
	case domain.ActionFollow:
		result, err = s.follow(ctx, actor, targetID)
	case domain.ActionView:
		result, err = s.view(ctx, actor, targetID)
	}
	if err != nil {
		return nil, err
	}

	metrics.InteractionsTotal.WithLabelValues(string(action), outcomeLabel(result)).Inc()
	return result, nil
}

func (s *service) like(ctx context.Context, actor *domain.User, blogID uuid.UUID) (*domain.InteractionResult, error) {
	b, err := s.loadBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	out, err := s.interactionRepo.ToggleLike(ctx, b.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	blog.Invalidate(ctx, s.redis, b.ID)

	if out.Added() {
		s.notifyLike(ctx, actor, b)
	}

	return newResult(domain.ActionLike, b.ID, out), nil
}

func (s *service) bookmark(ctx context.Context, actor *domain.User, blogID uuid.UUID) (*domain.InteractionResult, error) {
	b, err := s.loadBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	out, err := s.interactionRepo.ToggleBookmark(ctx, b.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	blog.Invalidate(ctx, s.redis, b.ID)

	return newResult(domain.ActionBookmark, b.ID, out), nil
}

func (s *service) follow(ctx context.Context, actor *domain.User, followeeID uuid.UUID) (*domain.InteractionResult, error) {
	followee, err := s.loadUser(ctx, followeeID)
	if err != nil {
		return nil, err
	}

	out, err := s.interactionRepo.ToggleFollow(ctx, actor.ID, followee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle follow: %w", err)
	}

	if out.Added() {
		s.notifyFollow(ctx, actor, followee)
	}

	return newResult(domain.ActionFollow, followee.ID, out), nil
}

func (s *service) view(ctx context.Context, actor *domain.User, blogID uuid.UUID) (*domain.InteractionResult, error) {
	b, err := s.loadBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	out, err := s.interactionRepo.RecordView(ctx, b.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	if out.Changed {
		blog.Invalidate(ctx, s.redis, b.ID)
	}

	return newResult(domain.ActionView, b.ID, out), nil
}

func (s *service) notifyLike(ctx context.Context, actor *domain.User, b *domain.Blog) {
	if b.AuthorID == actor.ID {
		return
	}

	author, err := s.userRepo.GetByID(ctx, b.AuthorID)
	if err != nil || author == nil {
		s.log.Warn("like notification skipped, author unavailable",
			logger.Stringer("blog", b.ID),
			logger.Error(err),
		)
		return
	}
	if !author.Notification.Allows(domain.NotifLike) {
		return
	}

	args := map[string]string{"actor": actor.FullName, "title": b.Title}
	s.notify(ctx, domain.NotifyInput{
		RecipientID: author.ID,
		SenderID:    actor.ID,
		Type:        domain.NotifLike,
		Target:      &domain.Target{ID: b.ID, Type: domain.TargetBlog},
		Title:       s.messages.Render("like.title", args),
		Message:     s.messages.Render("like.message", args),
		Link:        b.Link(),
		RelatedContent: &domain.RelatedContent{
			Type:    string(domain.TargetBlog),
			Title:   b.Title,
			Content: b.Summary(summaryLength),
		},
	})
}

func (s *service) notifyFollow(ctx context.Context, actor, followee *domain.User) {
	if !followee.Notification.Allows(domain.NotifFollow) {
		return
	}

	args := map[string]string{"actor": actor.FullName}
	s.notify(ctx, domain.NotifyInput{
		RecipientID: followee.ID,
		SenderID:    actor.ID,
		Type:        domain.NotifFollow,
		Target:      &domain.Target{ID: actor.ID, Type: domain.TargetUser},
		Title:       s.messages.Render("follow.title", args),
		Message:     s.messages.Render("follow.message", args),
		Link:        "/users/" + actor.ID.String(),
	})
}

// notify never fails the interaction that triggered it.
func (s *service) notify(ctx context.Context, input domain.NotifyInput) {
	if _, err := s.notifSvc.Notify(ctx, input); err != nil {
		s.log.Error("failed to send notification",
			logger.String("type", string(input.Type)),
			logger.Stringer("recipient", input.RecipientID),
			logger.Error(err),
		)
	}
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *service) loadBlog(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	b, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBlogNotFound
	}
	return b, nil
}

func newResult(action domain.Action, targetID uuid.UUID, out domain.ToggleOutcome) *domain.InteractionResult {
	return &domain.InteractionResult{
		Action:   action,
		TargetID: targetID,
		Active:   out.Active,
		Changed:  out.Changed,
		Count:    out.Count,
	}
}

func outcomeLabel(r *domain.InteractionResult) string {
	switch {
	case !r.Changed:
		return "unchanged"
	case r.Active:
		return "added"
	default:
		return "removed"
	}
}
