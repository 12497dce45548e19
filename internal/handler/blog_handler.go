package handler

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/service/blog"
)

type BlogHandler struct {
	blogService blog.Service
}

func NewBlogHandler(blogService blog.Service) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateBlogInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	b, err := h.blogService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	blogID, err := parseIDParam(c, "id", "blog")
	if err != nil {
		return err
	}

	b, err := h.blogService.GetByID(c.Context(), blogID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(b)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseIDParam(c, "id", "blog")
	if err != nil {
		return err
	}

	if err := h.blogService.Delete(c.Context(), userID, blogID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *BlogHandler) ListByAuthor(c *fiber.Ctx) error {
	authorID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	result, err := h.blogService.ListByAuthor(c.Context(), authorID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *BlogHandler) ListLikes(c *fiber.Ctx) error {
	blogID, err := parseIDParam(c, "id", "blog")
	if err != nil {
		return err
	}

	likes, err := h.blogService.ListLikes(c.Context(), blogID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  likes,
		"count": len(likes),
	})
}
