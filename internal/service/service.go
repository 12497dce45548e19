package service

import (
	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"
	"inkwell/internal/logger"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/repository"
	"inkwell/internal/service/auth"
	"inkwell/internal/service/blog"
	"inkwell/internal/service/comment"
	"inkwell/internal/service/interaction"
	"inkwell/internal/service/notification"
	"inkwell/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Blog         blog.Service
	Comment      comment.Service
	Interaction  interaction.Service
	Notification notification.Service
}

func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	pusher notification.Pusher,
	messages *i18n.Catalog,
	cfg *config.Config,
	log logger.Logger,
) *Services {
	notificationService := notification.NewService(repos.Notification, pusher, redis, notification.Policy{
		DedupEnabled: cfg.NotificationDedupEnabled,
		DedupWindow:  cfg.NotificationDedupWindow,
	}, log)

	commentService := comment.NewService(repos.Comment, repos.Blog, repos.User, messages, redis, log)
	commentService.SetNotificationService(notificationService)

	return &Services{
		Auth:         auth.NewService(repos.User, cfg),
		User:         user.NewService(repos.User, repos.Blog),
		Blog:         blog.NewService(repos.Blog, repos.User, notificationService, messages, redis, log),
		Comment:      commentService,
		Interaction:  interaction.NewService(repos.Interaction, repos.Blog, repos.User, notificationService, messages, redis, log),
		Notification: notificationService,
	}
}
