package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/pacman-server/internal/game"
	"github.com/ugaemi/pacman-server/internal/metrics"
	"github.com/ugaemi/pacman-server/internal/record"
	"github.com/ugaemi/pacman-server/internal/store"
	"github.com/ugaemi/pacman-server/internal/ws"
)

// Runner owns one game session. All access to the session goes through the
// runner's mutex; the optional game loop advances it at a fixed rate.
type Runner struct {
	ID string

	session *game.Session
	client  *ws.Client
	writer  *store.Writer

	tickInterval time.Duration
	levelDelay   time.Duration

	// Game loop control
	stopCh     chan struct{}
	running    bool
	levelTimer *time.Timer

	mu sync.RWMutex
}

func newRunner(s *game.Session, writer *store.Writer, tickInterval, levelDelay time.Duration) *Runner {
	return &Runner{
		ID:           s.ID,
		session:      s,
		writer:       writer,
		tickInterval: tickInterval,
		levelDelay:   levelDelay,
	}
}

// Attach sets the client that receives this session's updates.
func (r *Runner) Attach(client *ws.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = client
}

// Snapshot returns a copy of the current session.
func (r *Runner) Snapshot() game.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session.Snapshot()
}

// State returns the session state.
func (r *Runner) State() game.SessionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session.State
}

// ApplyDirection queues a direction for Pac-Man.
func (r *Runner) ApplyDirection(d game.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = game.ApplyInput(r.session, d)
}

// Pause freezes a playing session.
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := game.Pause(r.session)
	if err != nil {
		return err
	}
	r.session = next
	slog.Info("session paused", "session", r.ID)
	return nil
}

// Resume continues a paused session.
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := game.Resume(r.session)
	if err != nil {
		return err
	}
	r.session = next
	slog.Info("session resumed", "session", r.ID)
	return nil
}

// Advance moves the session forward by dt and returns the result. A level
// that ends during the step is recorded and, for a completed level, the
// next one is scheduled.
func (r *Runner) Advance(dt time.Duration) game.Snapshot {
	r.mu.Lock()
	start := time.Now()
	prev := r.session.State
	r.session = game.Tick(r.session, dt)
	snap := r.session.Snapshot()
	ended := !prev.Terminal() && snap.State.Terminal()
	if ended && snap.State == game.StateLevelComplete {
		r.scheduleNextLevel()
	}
	r.mu.Unlock()

	metrics.RecordTick(time.Since(start))
	if ended {
		r.levelEnded(snap)
	}
	return snap
}

// scheduleNextLevel starts the next level after the level delay, or right
// away when there is none. Caller must hold r.mu.
func (r *Runner) scheduleNextLevel() {
	if r.levelDelay <= 0 {
		r.startNextLevel()
		return
	}
	if r.levelTimer != nil {
		r.levelTimer.Stop()
	}
	r.levelTimer = time.AfterFunc(r.levelDelay, func() {
		r.mu.Lock()
		r.startNextLevel()
		snap := r.session.Snapshot()
		r.mu.Unlock()
		r.send(ws.TypeSessionState, snap)
	})
}

// startNextLevel advances a completed level. Caller must hold r.mu.
func (r *Runner) startNextLevel() {
	next, err := game.NextLevel(r.session)
	if err != nil {
		slog.Warn("cannot start next level", "session", r.ID, "error", err)
		return
	}
	r.session = next
	slog.Info("level started", "session", r.ID, "level", next.Level)
}

// levelEnded persists the record of a finished level and tells the client.
func (r *Runner) levelEnded(snap game.Snapshot) {
	outcome := snap.State.String()
	metrics.RecordSessionEnd(outcome)
	slog.Info("level ended", "session", r.ID, "outcome", outcome,
		"level", snap.Level, "score", snap.Score.Points, "lives", snap.Pacman.Lives)

	r.persist(snap)
	r.send(ws.TypeSessionOver, sessionOverMessage{
		SessionID: snap.ID,
		Outcome:   outcome,
		Level:     snap.Level,
		Score:     snap.Score.Points,
		Lives:     snap.Pacman.Lives,
	})

	if snap.State == game.StateGameOver {
		r.Stop()
	}
}

func (r *Runner) persist(snap game.Snapshot) {
	if r.writer == nil {
		return
	}
	g, err := record.FromSnapshot(snap)
	if err != nil {
		slog.Error("failed to build game record", "session", r.ID, "error", err)
		return
	}
	if !r.writer.Enqueue(g) {
		metrics.RecordDropped()
	}
}

// Start launches the game loop. It does nothing if the runner has no tick
// interval or is already running.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.tickInterval <= 0 {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	go r.gameLoop(r.stopCh)
}

// Stop halts the game loop and any pending level change.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.levelTimer != nil {
		r.levelTimer.Stop()
		r.levelTimer = nil
	}
	if !r.running {
		return
	}
	r.running = false
	close(r.stopCh)
}

// Running reports whether the game loop is active.
func (r *Runner) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

type sessionStateMessage struct {
	Session game.Snapshot `json:"session"`
}

type sessionOverMessage struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
	Level     int    `json:"level"`
	Score     int    `json:"score"`
	Lives     int    `json:"lives"`
}

func (r *Runner) send(msgType string, payload any) {
	r.mu.RLock()
	client := r.client
	r.mu.RUnlock()
	if client == nil {
		return
	}
	if snap, ok := payload.(game.Snapshot); ok {
		payload = sessionStateMessage{Session: snap}
	}
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		slog.Error("failed to encode message", "session", r.ID, "type", msgType, "error", err)
		return
	}
	client.SendMessage(msg)
}

// gameLoop advances the session at the tick rate and streams every state
// change to the client.
func (r *Runner) gameLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if r.State() != game.StatePlaying {
				continue
			}
			snap := r.Advance(dt)
			r.send(ws.TypeSessionState, snap)
		}
	}
}
