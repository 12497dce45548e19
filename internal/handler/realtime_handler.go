package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/realtime"
)

type RealtimeHandler struct {
	gateway *realtime.Gateway
}

func NewRealtimeHandler(gateway *realtime.Gateway) *RealtimeHandler {
	return &RealtimeHandler{gateway: gateway}
}

// RequireUpgrade rejects plain HTTP requests to the websocket endpoint. It
// runs after authentication so the token is checked before the upgrade.
func (h *RealtimeHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *RealtimeHandler) Connect() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.UserIDContextKey).(uuid.UUID)
		if !ok || userID == uuid.Nil {
			_ = conn.Close()
			return
		}
		h.gateway.Serve(conn, userID)
	})
}
