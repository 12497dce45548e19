package realtime

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/logger"
)

type fakeSession struct {
	id     string
	mu     sync.Mutex
	inbox  [][]byte
	full   bool
	closed bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{id: uuid.NewString()}
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full || s.closed {
		return false
	}
	s.inbox = append(s.inbox, msg)
	return true
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.inbox))
	for i, m := range s.inbox {
		out[i] = string(m)
	}
	return out
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestRegistry_RegisterResolve(t *testing.T) {
	r := NewRegistry(logger.Nop())
	userID := uuid.New()

	assert.Empty(t, r.Resolve(userID))
	assert.False(t, r.IsOnline(userID))

	s := newFakeSession()
	r.Register(userID, s)

	require.Len(t, r.Resolve(userID), 1)
	assert.Equal(t, s.ID(), r.Resolve(userID)[0].ID())
	assert.True(t, r.IsOnline(userID))

	r.Unregister(s.ID())
	assert.Empty(t, r.Resolve(userID))
	assert.Equal(t, 0, r.ConnectionCount())

	// Unknown ids are ignored.
	r.Unregister("missing")
}

func TestRegistry_MultipleSessions(t *testing.T) {
	r := NewRegistry(logger.Nop())
	userID := uuid.New()

	phone, laptop := newFakeSession(), newFakeSession()
	r.Register(userID, phone)
	r.Register(userID, laptop)
	r.Register(userID, laptop)

	assert.Equal(t, 2, r.ConnectionCount())
	assert.Equal(t, 2, r.Push(userID, EventNewNotification))

	expected := []string{`{"type":"new_notification"}`}
	assert.Equal(t, expected, phone.received())
	assert.Equal(t, expected, laptop.received())

	r.Unregister(phone.ID())
	assert.Equal(t, 1, r.Push(userID, EventNewNotification))
	assert.Len(t, phone.received(), 1)
	assert.Len(t, laptop.received(), 2)
}

func TestRegistry_ReRegisterMovesSession(t *testing.T) {
	r := NewRegistry(logger.Nop())
	alice, bob := uuid.New(), uuid.New()
	s := newFakeSession()

	r.Register(alice, s)
	r.Register(bob, s)

	assert.False(t, r.IsOnline(alice))
	assert.True(t, r.IsOnline(bob))
	assert.Equal(t, 1, r.ConnectionCount())
}

func TestRegistry_PushOffline(t *testing.T) {
	r := NewRegistry(logger.Nop())
	assert.Equal(t, 0, r.Push(uuid.New(), EventNewNotification))
}

func TestRegistry_PushDropsSlowSession(t *testing.T) {
	r := NewRegistry(logger.Nop())
	userID := uuid.New()

	healthy, stuck := newFakeSession(), newFakeSession()
	stuck.full = true
	r.Register(userID, healthy)
	r.Register(userID, stuck)

	assert.Equal(t, 1, r.Push(userID, EventNewNotification))
	assert.True(t, stuck.isClosed())
	assert.False(t, healthy.isClosed())
	require.Len(t, r.Resolve(userID), 1)
	assert.Equal(t, healthy.ID(), r.Resolve(userID)[0].ID())
}

func TestRegistry_Shutdown(t *testing.T) {
	r := NewRegistry(logger.Nop())
	a, b := newFakeSession(), newFakeSession()
	r.Register(uuid.New(), a)
	r.Register(uuid.New(), b)

	r.Shutdown()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, r.ConnectionCount())

	late := newFakeSession()
	r.Register(uuid.New(), late)
	assert.True(t, late.isClosed())
	assert.Equal(t, 0, r.ConnectionCount())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry(logger.Nop())
	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := users[i%len(users)]
			s := newFakeSession()
			r.Register(userID, s)
			r.Push(userID, EventNewNotification)
			_ = r.Resolve(userID)
			if i%2 == 0 {
				r.Unregister(s.ID())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, r.ConnectionCount())

	total := 0
	for _, u := range users {
		total += len(r.Resolve(u))
	}
	assert.Equal(t, 100, total)
}
