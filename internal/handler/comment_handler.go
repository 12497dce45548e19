package handler

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/service/comment"
)

type CommentHandler struct {
	commentService comment.Service
}

func NewCommentHandler(commentService comment.Service) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseIDParam(c, "id", "blog")
	if err != nil {
		return err
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.commentService.Create(c.Context(), blogID, userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	blogID, err := parseIDParam(c, "id", "blog")
	if err != nil {
		return err
	}

	result, err := h.commentService.ListByBlog(c.Context(), blogID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.commentService.Update(c.Context(), userID, commentID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Context(), userID, commentID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
