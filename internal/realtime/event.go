package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event names exchanged over the websocket.
const (
	EventRegister        = "register"
	EventRegistered      = "registered"
	EventPing            = "ping"
	EventPong            = "pong"
	EventError           = "error"
	EventNewNotification = "new_notification"
)

// Frame is the JSON envelope for every websocket message in both directions.
type Frame struct {
	Type    string     `json:"type"`
	UserID  *uuid.UUID `json:"userId,omitempty"`
	Message string     `json:"message,omitempty"`
}

func encodeFrame(f Frame) []byte {
	data, _ := json.Marshal(f)
	return data
}
