package handler

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
	"inkwell/internal/service/interaction"
)

type InteractionHandler struct {
	interactionService interaction.Service
}

func NewInteractionHandler(interactionService interaction.Service) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// Apply handles POST /interactions/:action/:targetId.
func (h *InteractionHandler) Apply(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	action, err := domain.ParseAction(c.Params("action"))
	if err != nil {
		return middleware.BadRequest("Unsupported action")
	}

	targetID, err := parseIDParam(c, "targetId", "target")
	if err != nil {
		return err
	}

	result, err := h.interactionService.Apply(c.Context(), action, userID, targetID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
