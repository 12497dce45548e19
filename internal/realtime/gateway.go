package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/logger"
)

// Gateway drives one authenticated websocket: the session only becomes
// reachable for pushes after the client sends a register frame naming the
// same user the access token was issued to.
type Gateway struct {
	registry     *Registry
	log          logger.Logger
	sendBuffer   int
	pingInterval time.Duration
}

func NewGateway(registry *Registry, log logger.Logger, sendBuffer int, pingInterval time.Duration) *Gateway {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Gateway{
		registry:     registry,
		log:          log,
		sendBuffer:   sendBuffer,
		pingInterval: pingInterval,
	}
}

// Serve blocks until the socket closes.
func (g *Gateway) Serve(conn wsConn, authUserID uuid.UUID) {
	c := NewConnection(conn, g.sendBuffer)
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		c.writePump(g.pingInterval)
	}()

	// The socket is released once Serve returns, so the writer must be gone by then.
	defer func() {
		g.registry.Unregister(c.ID())
		c.Close()
		<-pumped
	}()

	readWait := 2 * g.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			g.log.Debug("realtime read ended",
				logger.String("session_id", c.ID()),
				logger.Error(err))
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.Send(encodeFrame(Frame{Type: EventError, Message: "malformed frame"}))
			continue
		}

		switch frame.Type {
		case EventRegister:
			if frame.UserID == nil || *frame.UserID != authUserID {
				g.log.Warn("realtime register rejected",
					logger.String("session_id", c.ID()),
					logger.String("token_user_id", authUserID.String()),
					logger.Bool("claimed", frame.UserID != nil))
				c.Send(encodeFrame(Frame{Type: EventError, Message: "user mismatch"}))
				continue
			}
			g.registry.Register(authUserID, c)
			c.Send(encodeFrame(Frame{Type: EventRegistered, UserID: &authUserID}))
		case EventPing:
			c.Send(encodeFrame(Frame{Type: EventPong}))
		default:
			c.Send(encodeFrame(Frame{Type: EventError, Message: "unknown frame type"}))
		}
	}
}
