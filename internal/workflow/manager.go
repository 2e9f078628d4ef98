package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates an unknown or expired session
type ErrSessionNotFound struct {
	ID uuid.UUID
}

func (e ErrSessionNotFound) Error() string {
	return "session not found: " + e.ID.String()
}

// Manager holds active sessions in memory, one isolated Session value per
// interactive user. No step of the workflow persists sessions; abandoned
// ones are swept after an idle TTL since they never complete on their own.
type Manager struct {
	logger  *slog.Logger
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewManager creates a session manager
func NewManager(logger *slog.Logger, idleTTL time.Duration) *Manager {
	return &Manager{
		logger:   logger,
		idleTTL:  idleTTL,
		sessions: make(map[uuid.UUID]Session),
	}
}

// Create registers and returns a fresh session
func (m *Manager) Create() Session {
	sess := NewSession()

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", sess.ID.String())
	return sess
}

// Get returns the session with the given id
func (m *Manager) Get(id uuid.UUID) (Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound{ID: id}
	}
	return sess, nil
}

// Put stores the updated session value
func (m *Manager) Put(sess Session) {
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
}

// Delete removes the session, ending the interaction
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of active sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunSweeper periodically drops sessions idle longer than the TTL. It blocks
// until the context is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, sess := range m.sessions {
		if now.Sub(sess.UpdatedAt) > m.idleTTL {
			delete(m.sessions, id)
			m.logger.Info("expired session swept", "session_id", id.String())
		}
	}
}
