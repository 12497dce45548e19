package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inkwell/internal/service/auth"
)

const UserIDContextKey = "user_id"

// AuthRequired validates the bearer token and loads the user. Websocket
// handshakes cannot set headers from a browser, so a token query parameter is
// accepted when allowQueryToken is set.
func AuthRequired(authService auth.Service, allowQueryToken ...bool) fiber.Handler {
	queryToken := len(allowQueryToken) > 0 && allowQueryToken[0]

	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, queryToken)
		if err != nil {
			return err
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil || user == nil {
			return Unauthorized("User not found")
		}

		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, allowQuery bool) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if allowQuery {
			if token := c.Query("token"); token != "" {
				return token, nil
			}
		}
		return "", Unauthorized("Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// GetUserID returns the authenticated user's id or a 401 error.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID := GetCurrentUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, Unauthorized("Authentication required")
	}
	return userID, nil
}
