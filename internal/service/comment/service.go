package comment

import (
	"context"
	"encoding/json"
	"fmt"
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

const excerptLength = 80

type Service interface {
	Create(ctx context.Context, blogID, userID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, input domain.UpdateCommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	ListByBlog(ctx context.Context, blogID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Comment], error)
	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	userRepo    repository.UserRepository
	notifSvc    notification.Service
	messages    *i18n.Catalog
	redis       *redis.Client
	log         logger.Logger
}

func NewService(
	commentRepo repository.CommentRepository,
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	messages *i18n.Catalog,
	redis *redis.Client,
	log logger.Logger,
) Service {
	return &service{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		userRepo:    userRepo,
		messages:    messages,
		redis:       redis,
		log:         log.With(logger.String("component", "comment")),
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) Create(ctx context.Context, blogID, userID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	b, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBlogNotFound
	}

	var parent *domain.Comment
	if input.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.BlogID != blogID {
			return nil, domain.ErrCommentNotFound
		}
	}

	comment := &domain.Comment{
		ID:       uuid.New(),
		BlogID:   blogID,
		UserID:   userID,
		ParentID: input.ParentID,
		Content:  input.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, blogID)
	s.notifyComment(ctx, b, parent, comment)

	return comment, nil
}

func (s *service) notifyComment(ctx context.Context, b *domain.Blog, parent *domain.Comment, comment *domain.Comment) {
	if s.notifSvc == nil {
		return
	}

	actor, err := s.userRepo.GetByID(ctx, comment.UserID)
	if err != nil || actor == nil {
		s.log.Warn("comment notification skipped, commenter unavailable",
			logger.Stringer("comment", comment.ID),
			logger.Error(err),
		)
		return
	}

	args := map[string]string{
		"actor":   actor.FullName,
		"title":   b.Title,
		"excerpt": excerpt(comment.Content),
	}
	related := &domain.RelatedContent{
		Type:    string(domain.TargetComment),
		Title:   b.Title,
		Content: comment.Content,
	}
	target := &domain.Target{ID: comment.ID, Type: domain.TargetComment}
	link := b.Link() + "#comment-" + comment.ID.String()

	s.notifyUser(ctx, b.AuthorID, domain.NotifyInput{
		SenderID:       actor.ID,
		Type:           domain.NotifComment,
		Target:         target,
		Title:          s.messages.Render("comment.title", args),
		Message:        s.messages.Render("comment.message", args),
		Link:           link,
		RelatedContent: related,
	})

	if parent != nil && parent.UserID != b.AuthorID {
		s.notifyUser(ctx, parent.UserID, domain.NotifyInput{
			SenderID:       actor.ID,
			Type:           domain.NotifComment,
			Target:         target,
			Title:          s.messages.Render("reply.title", args),
			Message:        s.messages.Render("reply.message", args),
			Link:           link,
			RelatedContent: related,
		})
	}
}

// notifyUser checks the recipient's comment preference before handing the
// notification to the dispatcher.
func (s *service) notifyUser(ctx context.Context, recipientID uuid.UUID, input domain.NotifyInput) {
	if recipientID == input.SenderID {
		return
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil || recipient == nil {
		s.log.Warn("comment notification skipped, recipient unavailable",
			logger.Stringer("recipient", recipientID),
			logger.Error(err),
		)
		return
	}
	if !recipient.Notification.Allows(input.Type) {
		return
	}

	input.RecipientID = recipientID
	if _, err := s.notifSvc.Notify(ctx, input); err != nil {
		s.log.Error("failed to send notification",
			logger.String("type", string(input.Type)),
			logger.Stringer("recipient", recipientID),
			logger.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, input domain.UpdateCommentInput) (*domain.Comment, error) {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	comment.Content = input.Content

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, comment.BlogID)
	return comment, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateList(ctx, comment.BlogID)
	return nil
}

func (s *service) ListByBlog(ctx context.Context, blogID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Comment], error) {
	cacheKey := fmt.Sprintf("comments:%s:page:%d:size:%d", blogID, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var result domain.PaginatedResponse[domain.Comment]
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	comments, total, err := s.commentRepo.ListByBlog(ctx, blogID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Comment]{}, err
	}

	result := domain.NewPaginatedResponse(comments, params.Page, params.PageSize, total)

	if s.redis != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, resultJSON, 5*time.Minute).Err()
		}
	}

	return result, nil
}

func (s *service) invalidateList(ctx context.Context, blogID uuid.UUID) {
	if s.redis == nil {
		return
	}

	iter := s.redis.Scan(ctx, 0, fmt.Sprintf("comments:%s:*", blogID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("failed to scan comment cache", logger.Stringer("blog", blogID), logger.Error(err))
		return
	}
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}

func excerpt(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}
