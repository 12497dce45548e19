package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const writeWait = 10 * time.Second

// wsConn is the subset of *websocket.Conn the session needs.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Connection is a websocket Session with a buffered outbound queue drained
// by a single writer goroutine.
type Connection struct {
	id   string
	conn wsConn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConnection(conn wsConn, buffer int) *Connection {
	if buffer <= 0 {
		buffer = 16
	}
	return &Connection{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Connection) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Connection) Done() <-chan struct{} { return c.done }

// writePump owns every write to the socket. It exits, closing the socket,
// once Close has been called or a write fails.
func (c *Connection) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
