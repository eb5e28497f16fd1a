package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/pacman-server/internal/config"
	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/metrics"
	"github.com/ugaemi/pacman-server/internal/store"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Options configure the sessions a Manager creates.
type Options struct {
	Layout       game.Layout
	Difficulties config.Difficulties
	// Writer persists finished levels. Nil disables persistence.
	Writer *store.Writer
	// TickInterval drives each runner's game loop. Zero leaves sessions to
	// be advanced with Manager.Tick.
	TickInterval time.Duration
	LevelDelay   time.Duration
}

// Manager manages all active sessions.
type Manager struct {
	opts     Options
	sessions map[string]*Runner // id -> runner
	mu       sync.RWMutex
}

// NewManager creates a new session manager.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Runner),
	}
}

// Create starts a new session for a player at the named difficulty.
// Unknown difficulties fall back to the default preset.
func (m *Manager) Create(playerName, difficulty string) (*Runner, error) {
	settings := m.opts.Difficulties.Settings(difficulty)
	s, err := game.NewSession(uuid.NewString(), playerName, m.opts.Layout, settings)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	r := newRunner(s, m.opts.Writer, m.opts.TickInterval, m.opts.LevelDelay)

	m.mu.Lock()
	m.sessions[r.ID] = r
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.SetActiveSessions(count)
	slog.Info("session created", "session", r.ID, "player", s.PlayerName, "difficulty", s.Difficulty)
	return r, nil
}

// Get returns a session's runner.
func (m *Manager) Get(id string) (*Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return r, nil
}

// Tick advances a session by elapsedMillis and returns its new snapshot.
// Negative values are treated as zero and anything above
// game.MaxTickDuration as that maximum.
func (m *Manager) Tick(id string, elapsedMillis int64) (game.Snapshot, error) {
	r, err := m.Get(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	elapsedMillis = min(max(elapsedMillis, 0), game.MaxTickDuration.Milliseconds())
	return r.Advance(time.Duration(elapsedMillis) * time.Millisecond), nil
}

// ApplyDirection queues a direction for a session's Pac-Man.
func (m *Manager) ApplyDirection(id string, d game.Direction) error {
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	r.ApplyDirection(d)
	return nil
}

// Pause pauses a playing session.
func (m *Manager) Pause(id string) error {
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	return r.Pause()
}

// Resume resumes a paused session.
func (m *Manager) Resume(id string) error {
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	return r.Resume()
}

// Snapshot returns a copy of a session's state.
func (m *Manager) Snapshot(id string) (game.Snapshot, error) {
	r, err := m.Get(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Remove stops and forgets a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	r, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	r.Stop()
	metrics.SetActiveSessions(count)
	slog.Info("session removed", "session", id)
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StopAll halts every game loop. Sessions stay registered.
func (m *Manager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.sessions {
		r.Stop()
	}
}
