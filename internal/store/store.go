package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ugaemi/pacman-server/internal/record"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// DefaultTopScores is the leaderboard size used when no limit is given.
const DefaultTopScores = 10

// GameStore defines the interface for persistent game records.
type GameStore interface {
	// SaveGame inserts or replaces the record of a session, including its
	// statistic, score events, state snapshot and high score.
	SaveGame(ctx context.Context, g *record.Game) error
	// FindGame looks up a game by session ID. It returns nil, nil when
	// there is no such game.
	FindGame(ctx context.Context, id string) (*record.Game, error)
	// ScoreEvents returns the score events of a game in order.
	ScoreEvents(ctx context.Context, gameID string) ([]record.ScoreEvent, error)
	// TopScores returns the best high scores, highest first.
	TopScores(ctx context.Context, limit int) ([]record.HighScore, error)
	// Close releases database resources.
	Close() error
}

// Open connects the store named by driver. The "none" driver returns a nil
// store and no error.
func Open(ctx context.Context, driver, dsn string) (GameStore, error) {
	switch driver {
	case "postgres":
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopScores
	}
	return limit
}
