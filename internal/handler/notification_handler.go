package handler

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var filter domain.NotificationFilter
	switch c.Query("is_read") {
	case "true":
		read := true
		filter.IsRead = &read
	case "false":
		read := false
		filter.IsRead = &read
	}
	if c.Query("unread_only") == "true" {
		read := false
		filter.IsRead = &read
	}
	if t := c.Query("type"); t != "" {
		notifType := domain.NotificationType(t)
		if !notifType.IsValid() {
			return middleware.BadRequest("Invalid notification type")
		}
		filter.Type = &notifType
	}

	result, err := h.notifService.List(c.Context(), userID, filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	notif, err := h.notifService.GetByID(c.Context(), notifID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notif)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAsUnread(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAsUnread(c.Context(), notifID, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.Delete(c.Context(), notifID, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
