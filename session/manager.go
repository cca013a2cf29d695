package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"concentration-server/config"
	"concentration-server/matcherrors"
)

type running struct {
	session *Session
	cancel  context.CancelFunc
}

// Manager creates, tracks and tears down sessions. Safe for concurrent use.
type Manager struct {
	config *config.Config

	// Seed returns the RNG seed for each new session. Defaults to the clock
	// plus a counter so sessions opened in the same instant still differ.
	Seed func() int64

	mu       sync.Mutex
	sessions map[string]running
	opened   atomic.Int64
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config) *Manager {
	m := &Manager{
		config:   cfg,
		sessions: make(map[string]running),
	}
	m.Seed = func() int64 { return time.Now().UnixNano() + m.opened.Load() }
	return m
}

// Open starts a new session whose outbound messages go to send.
func (m *Manager) Open(send chan []byte) *Session {
	m.opened.Add(1)
	id := uuid.NewString()
	s := New(id, m.config, send, rand.New(rand.NewSource(m.Seed())))

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.sessions[id] = running{session: s, cancel: cancel}
	count := len(m.sessions)
	m.mu.Unlock()

	go s.Run(ctx)
	slog.Info("session opened", "tag", "session", "session", id, "active", count)
	return s
}

// Get returns the running session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.sessions[id]
	if !ok {
		return nil, matcherrors.ErrSessionNotFound
	}
	return r.session, nil
}

// Close stops the session with id and waits for its loop to exit.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	r, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return matcherrors.ErrSessionNotFound
	}

	r.cancel()
	<-r.session.Done
	slog.Info("session closed", "tag", "session", "session", id, "active", count)
	return nil
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every running session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Close(id)
	}
}
