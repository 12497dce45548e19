package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/realtime"
	"inkwell/internal/service"
)

type Handlers struct {
	Interaction  *InteractionHandler
	Notification *NotificationHandler
	Blog         *BlogHandler
	Comment      *CommentHandler
	User         *UserHandler
	Realtime     *RealtimeHandler
}

func NewHandlers(services *service.Services, gateway *realtime.Gateway) *Handlers {
	return &Handlers{
		Interaction:  NewInteractionHandler(services.Interaction),
		Notification: NewNotificationHandler(services.Notification),
		Blog:         NewBlogHandler(services.Blog),
		Comment:      NewCommentHandler(services.Comment),
		User:         NewUserHandler(services.User),
		Realtime:     NewRealtimeHandler(gateway),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}
