package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ugaemi/pacman-server/internal/record"
)

// DefaultQueueSize is the number of records a Writer buffers.
const DefaultQueueSize = 64

// Writer persists game records on a single background goroutine so the
// game loops never wait on the database.
type Writer struct {
	store   GameStore
	timeout time.Duration
	queue   chan *record.Game

	// OnResult, if set, is called after every write attempt.
	OnResult func(g *record.Game, err error)

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
	done    chan struct{}
}

// NewWriter creates a writer for store. Each write gets its own timeout.
func NewWriter(store GameStore, queueSize int, timeout time.Duration) *Writer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Writer{
		store:   store,
		timeout: timeout,
		queue:   make(chan *record.Game, queueSize),
		done:    make(chan struct{}),
	}
}

// Enqueue hands a record to the writer without blocking. It reports false,
// and drops the record, when the queue is full or the writer is closed.
func (w *Writer) Enqueue(g *record.Game) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		slog.Warn("writer closed, dropping record", "game", g.ID, "status", g.Status)
		return false
	}
	select {
	case w.queue <- g:
		return true
	default:
		slog.Warn("persistence queue full, dropping record", "game", g.ID, "status", g.Status)
		return false
	}
}

// Run drains the queue until Close is called or ctx is cancelled. Records
// still queued at Close are written before Run returns.
func (w *Writer) Run(ctx context.Context) error {
	w.started.Store(true)
	defer close(w.done)
	for {
		select {
		case g, ok := <-w.queue:
			if !ok {
				return nil
			}
			w.write(g)
		case <-ctx.Done():
			w.drain()
			return nil
		}
	}
}

// Close stops accepting records and, if Run was started, waits for it to
// finish the queue.
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	if w.started.Load() {
		<-w.done
	}
}

// Pending returns the number of queued records.
func (w *Writer) Pending() int {
	return len(w.queue)
}

func (w *Writer) drain() {
	for {
		select {
		case g, ok := <-w.queue:
			if !ok {
				return
			}
			w.write(g)
		default:
			return
		}
	}
}

func (w *Writer) write(g *record.Game) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	err := w.store.SaveGame(ctx, g)
	if err != nil {
		slog.Error("failed to persist game", "game", g.ID, "status", g.Status, "error", err)
	} else {
		slog.Info("game persisted", "game", g.ID, "status", g.Status, "score", g.Score)
	}
	if w.OnResult != nil {
		w.OnResult(g, err)
	}
}
