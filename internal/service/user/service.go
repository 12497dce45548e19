package user

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
)

// Service exposes the user-side reads of interaction state and notification
// preferences.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, input domain.UpdateNotificationPreferencesInput) (*domain.User, error)
	ListFollowers(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.UserSummary], error)
	ListFollowing(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.UserSummary], error)
	ListBookmarks(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error)
	ListHistory(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error)
}

type service struct {
	userRepo repository.UserRepository
	blogRepo repository.BlogRepository
}

func NewService(userRepo repository.UserRepository, blogRepo repository.BlogRepository) Service {
	return &service{
		userRepo: userRepo,
		blogRepo: blogRepo,
	}
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *service) UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, input domain.UpdateNotificationPreferencesInput) (*domain.User, error) {
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	prefs := input.Apply(u.Notification)
	if err := s.userRepo.UpdateNotificationPreferences(ctx, id, prefs); err != nil {
		return nil, err
	}

	u.Notification = prefs
	return u, nil
}

func (s *service) ListFollowers(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.UserSummary], error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return domain.PaginatedResponse[domain.UserSummary]{}, err
	}

	users, total, err := s.userRepo.ListFollowers(ctx, id, params)
	if err != nil {
		return domain.PaginatedResponse[domain.UserSummary]{}, err
	}
	return domain.NewPaginatedResponse(users, params.Page, params.PageSize, total), nil
}

func (s *service) ListFollowing(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.UserSummary], error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return domain.PaginatedResponse[domain.UserSummary]{}, err
	}

	users, total, err := s.userRepo.ListFollowing(ctx, id, params)
	if err != nil {
		return domain.PaginatedResponse[domain.UserSummary]{}, err
	}
	return domain.NewPaginatedResponse(users, params.Page, params.PageSize, total), nil
}

func (s *service) ListBookmarks(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error) {
	blogs, total, err := s.blogRepo.ListBookmarkedByUser(ctx, id, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Blog]{}, err
	}
	return domain.NewPaginatedResponse(blogs, params.Page, params.PageSize, total), nil
}

func (s *service) ListHistory(ctx context.Context, id uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Blog], error) {
	blogs, total, err := s.blogRepo.ListViewedByUser(ctx, id, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Blog]{}, err
	}
	return domain.NewPaginatedResponse(blogs, params.Page, params.PageSize, total), nil
}
