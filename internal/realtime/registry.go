package realtime

import (
	"sync"

	"github.com/google/uuid"

	"inkwell/internal/logger"
	"inkwell/internal/metrics"
)

// Session is one live transport connection.
type Session interface {
	ID() string
	// Send enqueues msg without blocking. It returns false when the session
	// cannot accept it (buffer full or closed).
	Send(msg []byte) bool
	Close()
}

// Registry maps users to their live sessions. A user may hold several
// sessions at once (one per device or tab); every one of them receives pushes.
type Registry struct {
	mu        sync.RWMutex
	byUser    map[uuid.UUID]map[string]Session
	bySession map[string]uuid.UUID
	closed    bool
	log       logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		byUser:    make(map[uuid.UUID]map[string]Session),
		bySession: make(map[string]uuid.UUID),
		log:       log,
	}
}

// Register binds s to userID. A session already bound to another user is
// moved. After Shutdown the session is closed instead.
func (r *Registry) Register(userID uuid.UUID, s Session) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		s.Close()
		return
	}

	if prev, ok := r.bySession[s.ID()]; ok && prev != userID {
		r.detachLocked(prev, s.ID())
	}

	sessions := r.byUser[userID]
	if sessions == nil {
		sessions = make(map[string]Session)
		r.byUser[userID] = sessions
	}
	_, existed := sessions[s.ID()]
	sessions[s.ID()] = s
	r.bySession[s.ID()] = userID
	r.mu.Unlock()

	if !existed {
		metrics.RealtimeSessionsActive.Inc()
	}
	r.log.Debug("realtime session registered",
		logger.String("user_id", userID.String()),
		logger.String("session_id", s.ID()))
}

// Unregister removes the session from whichever user it belongs to. Unknown
// ids are ignored.
func (r *Registry) Unregister(sessionID string) {
	r.mu.Lock()
	userID, ok := r.bySession[sessionID]
	if ok {
		r.detachLocked(userID, sessionID)
	}
	r.mu.Unlock()

	if ok {
		r.log.Debug("realtime session unregistered",
			logger.String("user_id", userID.String()),
			logger.String("session_id", sessionID))
	}
}

func (r *Registry) detachLocked(userID uuid.UUID, sessionID string) {
	delete(r.bySession, sessionID)
	sessions := r.byUser[userID]
	if _, ok := sessions[sessionID]; !ok {
		return
	}
	delete(sessions, sessionID)
	if len(sessions) == 0 {
		delete(r.byUser, userID)
	}
	metrics.RealtimeSessionsActive.Dec()
}

// Resolve returns the user's live sessions; empty when the user is offline.
func (r *Registry) Resolve(userID uuid.UUID) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := r.byUser[userID]
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) IsOnline(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySession)
}

// Push sends the named event to every session of userID and returns how
// many accepted it. It never blocks; a session whose buffer is full is
// dropped and closed so the client reconnects and re-fetches.
func (r *Registry) Push(userID uuid.UUID, event string) int {
	msg := encodeFrame(Frame{Type: event})

	delivered := 0
	var stale []Session
	for _, s := range r.Resolve(userID) {
		if s.Send(msg) {
			delivered++
			continue
		}
		stale = append(stale, s)
	}

	for _, s := range stale {
		metrics.RealtimeDroppedTotal.Inc()
		r.log.Warn("dropping slow realtime session",
			logger.String("user_id", userID.String()),
			logger.String("session_id", s.ID()))
		r.Unregister(s.ID())
		s.Close()
	}

	return delivered
}

// Shutdown closes every session; later registrations are refused.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	var all []Session
	for _, sessions := range r.byUser {
		for _, s := range sessions {
			all = append(all, s)
		}
	}
	r.byUser = make(map[uuid.UUID]map[string]Session)
	r.bySession = make(map[string]uuid.UUID)
	r.mu.Unlock()

	metrics.RealtimeSessionsActive.Sub(float64(len(all)))
	for _, s := range all {
		s.Close()
	}
	r.log.Info("realtime registry shut down", logger.Int("sessions_closed", len(all)))
}
