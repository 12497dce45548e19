package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/logger"
)

var errSocketClosed = errors.New("socket closed")

// fakeConn feeds queued client frames to the gateway and records what the
// server writes back.
type fakeConn struct {
	incoming chan []byte
	written  chan Frame
	closed   chan struct{}
	once     sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		incoming: make(chan []byte, 8),
		written:  make(chan Frame, 32),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.incoming:
		return websocket.TextMessage, msg, nil
	case <-c.closed:
		return 0, nil, errSocketClosed
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return errSocketClosed
	default:
	}
	if messageType != websocket.TextMessage {
		return nil
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.written <- f
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error        { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error       { return nil }
func (c *fakeConn) SetPongHandler(func(data string) error) {}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(t *testing.T, f any) {
	t.Helper()
	data, err := json.Marshal(f)
	require.NoError(t, err)
	c.incoming <- data
}

func (c *fakeConn) next(t *testing.T) Frame {
	t.Helper()
	select {
	case f := <-c.written:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame written")
		return Frame{}
	}
}

func serve(t *testing.T, g *Gateway, conn *fakeConn, userID uuid.UUID) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Serve(conn, userID)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gateway did not return")
	}
}

func TestGateway_RegisterAndPush(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	g := NewGateway(registry, logger.Nop(), 4, time.Minute)
	userID := uuid.New()
	conn := newFakeConn()
	done := serve(t, g, conn, userID)

	// Not reachable before registering.
	assert.Equal(t, 0, registry.Push(userID, EventNewNotification))

	conn.send(t, map[string]string{"type": EventRegister, "userId": userID.String()})
	ack := conn.next(t)
	assert.Equal(t, EventRegistered, ack.Type)
	require.NotNil(t, ack.UserID)
	assert.Equal(t, userID, *ack.UserID)

	assert.Equal(t, 1, registry.Push(userID, EventNewNotification))
	assert.Equal(t, EventNewNotification, conn.next(t).Type)

	conn.send(t, map[string]string{"type": EventPing})
	assert.Equal(t, EventPong, conn.next(t).Type)

	_ = conn.Close()
	waitDone(t, done)
	assert.False(t, registry.IsOnline(userID))
}

func TestGateway_RejectsMismatchedUser(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	g := NewGateway(registry, logger.Nop(), 4, time.Minute)
	userID := uuid.New()
	conn := newFakeConn()
	done := serve(t, g, conn, userID)

	conn.send(t, map[string]string{"type": EventRegister, "userId": uuid.NewString()})
	reply := conn.next(t)
	assert.Equal(t, EventError, reply.Type)
	assert.Equal(t, "user mismatch", reply.Message)
	assert.Equal(t, 0, registry.ConnectionCount())

	conn.send(t, map[string]string{"type": EventRegister})
	assert.Equal(t, EventError, conn.next(t).Type)

	_ = conn.Close()
	waitDone(t, done)
}

func TestGateway_BadFrames(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	g := NewGateway(registry, logger.Nop(), 4, time.Minute)
	conn := newFakeConn()
	done := serve(t, g, conn, uuid.New())

	conn.incoming <- []byte("{not json")
	assert.Equal(t, "malformed frame", conn.next(t).Message)

	conn.send(t, map[string]string{"type": "subscribe"})
	assert.Equal(t, "unknown frame type", conn.next(t).Message)

	_ = conn.Close()
	waitDone(t, done)
}

func TestGateway_ShutdownClosesSocket(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	g := NewGateway(registry, logger.Nop(), 4, time.Minute)
	userID := uuid.New()
	conn := newFakeConn()
	done := serve(t, g, conn, userID)

	conn.send(t, map[string]string{"type": EventRegister, "userId": userID.String()})
	require.Equal(t, EventRegistered, conn.next(t).Type)

	registry.Shutdown()
	waitDone(t, done)
}
