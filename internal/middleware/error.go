package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders every error as an ErrorResponse. Domain sentinel
// errors are mapped to their HTTP status; anything else is a 500 and logged.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		errorCode := "INTERNAL_ERROR"

		traceID := uuid.New().String()[:8]

		var e *fiber.Error
		if errors.As(MapDomainError(err), &e) {
			code = e.Code
			message = e.Message

			switch code {
			case fiber.StatusBadRequest:
				errorCode = "BAD_REQUEST"
			case fiber.StatusUnauthorized:
				errorCode = "UNAUTHORIZED"
			case fiber.StatusForbidden:
				errorCode = "FORBIDDEN"
			case fiber.StatusNotFound:
				errorCode = "NOT_FOUND"
			case fiber.StatusConflict:
				errorCode = "CONFLICT"
			case fiber.StatusUnprocessableEntity:
				errorCode = "VALIDATION_ERROR"
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				logger.String("trace_id", traceID),
				logger.String("method", c.Method()),
				logger.String("path", c.Path()),
				logger.Error(err),
			)
		}

		return c.Status(code).JSON(ErrorResponse{
			Code:    errorCode,
			Message: message,
			TraceID: traceID,
		})
	}
}

// MapDomainError converts sentinel errors into fiber errors. Errors it does
// not recognise are returned unchanged.
func MapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedAction),
		errors.Is(err, domain.ErrCannotFollowSelf),
		errors.Is(err, domain.ErrMissingTarget):
		return BadRequest(err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBlogNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return NotFound(err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(err.Error())
	}
	return err
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
