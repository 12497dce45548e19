package handler

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	u, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) UpdateNotificationPreferences(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdateNotificationPreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, err := h.userService.UpdateNotificationPreferences(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u.Notification)
}

func (h *UserHandler) ListFollowers(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	result, err := h.userService.ListFollowers(c.Context(), userID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UserHandler) ListFollowing(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	result, err := h.userService.ListFollowing(c.Context(), userID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UserHandler) ListBookmarks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	result, err := h.userService.ListBookmarks(c.Context(), userID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UserHandler) ListHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	result, err := h.userService.ListHistory(c.Context(), userID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
