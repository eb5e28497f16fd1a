package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/pacman-server/internal/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    player_name TEXT NOT NULL DEFAULT 'Player',
    difficulty TEXT NOT NULL DEFAULT 'normal',
    maze_id TEXT NOT NULL DEFAULT 'classic',
    status TEXT NOT NULL,
    current_level INTEGER NOT NULL DEFAULT 1,
    score INTEGER NOT NULL DEFAULT 0,
    lives INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS game_statistics (
    game_id TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
    final_score INTEGER NOT NULL,
    level_reached INTEGER NOT NULL,
    duration_seconds INTEGER NOT NULL,
    dots_eaten INTEGER NOT NULL,
    power_pellets_eaten INTEGER NOT NULL,
    ghosts_eaten INTEGER NOT NULL,
    fruits_eaten INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS high_scores (
    game_id TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
    player_name TEXT NOT NULL,
    score INTEGER NOT NULL,
    level INTEGER NOT NULL,
    difficulty TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores(score DESC);
CREATE TABLE IF NOT EXISTS score_events (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    points INTEGER NOT NULL,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    ghost TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (game_id, seq)
);
CREATE TABLE IF NOT EXISTS game_states (
    game_id TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
    state_data JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore implements GameStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveGame inserts or replaces the record of a session in one transaction.
func (s *PostgresStore) SaveGame(ctx context.Context, g *record.Game) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO games (id, player_name, difficulty, maze_id, status, current_level, score, lives, created_at, updated_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		     status = EXCLUDED.status, current_level = EXCLUDED.current_level,
		     score = EXCLUDED.score, lives = EXCLUDED.lives,
		     updated_at = EXCLUDED.updated_at, completed_at = EXCLUDED.completed_at`,
		g.ID, g.PlayerName, g.Difficulty, g.MazeID, g.Status, g.Level, g.Score, g.Lives, g.CreatedAt, g.UpdatedAt, g.CompletedAt)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}

	st := g.Statistic
	_, err = tx.Exec(ctx,
		`INSERT INTO game_statistics (game_id, final_score, level_reached, duration_seconds, dots_eaten, power_pellets_eaten, ghosts_eaten, fruits_eaten)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (game_id) DO UPDATE SET
		     final_score = EXCLUDED.final_score, level_reached = EXCLUDED.level_reached,
		     duration_seconds = EXCLUDED.duration_seconds, dots_eaten = EXCLUDED.dots_eaten,
		     power_pellets_eaten = EXCLUDED.power_pellets_eaten, ghosts_eaten = EXCLUDED.ghosts_eaten,
		     fruits_eaten = EXCLUDED.fruits_eaten`,
		g.ID, st.FinalScore, st.LevelReached, st.DurationSeconds, st.DotsEaten, st.PowerPelletsEaten, st.GhostsEaten, st.FruitsEaten)
	if err != nil {
		return fmt.Errorf("save statistic %s: %w", g.ID, err)
	}

	if hs := g.HighScore; hs != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO high_scores (game_id, player_name, score, level, difficulty, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (game_id) DO UPDATE SET score = EXCLUDED.score, level = EXCLUDED.level`,
			g.ID, hs.PlayerName, hs.Score, hs.Level, hs.Difficulty, hs.CreatedAt)
		if err != nil {
			return fmt.Errorf("save high score %s: %w", g.ID, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM score_events WHERE game_id = $1`, g.ID); err != nil {
		return fmt.Errorf("clear score events %s: %w", g.ID, err)
	}
	if len(g.Events) > 0 {
		batch := &pgx.Batch{}
		for _, e := range g.Events {
			batch.Queue(
				`INSERT INTO score_events (game_id, seq, event_type, points, x, y, ghost, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				g.ID, e.Seq, e.Kind, e.Points, e.X, e.Y, e.Ghost, e.OccurredAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save score events %s: %w", g.ID, err)
		}
	}

	if len(g.StateData) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO game_states (game_id, state_data, created_at) VALUES ($1, $2, $3)
			 ON CONFLICT (game_id) DO UPDATE SET state_data = EXCLUDED.state_data, created_at = EXCLUDED.created_at`,
			g.ID, string(g.StateData), g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("save state %s: %w", g.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// FindGame looks up a game and its statistic by session ID.
func (s *PostgresStore) FindGame(ctx context.Context, id string) (*record.Game, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT g.id, g.player_name, g.difficulty, g.maze_id, g.status, g.current_level, g.score, g.lives,
		        g.created_at, g.updated_at, g.completed_at,
		        st.final_score, st.level_reached, st.duration_seconds, st.dots_eaten,
		        st.power_pellets_eaten, st.ghosts_eaten, st.fruits_eaten
		 FROM games g JOIN game_statistics st ON st.game_id = g.id
		 WHERE g.id = $1`, id)

	g, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// ScoreEvents returns the score events of a game in order.
func (s *PostgresStore) ScoreEvents(ctx context.Context, gameID string) ([]record.ScoreEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, seq, event_type, points, x, y, ghost, created_at
		 FROM score_events WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []record.ScoreEvent
	for rows.Next() {
		var e record.ScoreEvent
		if err := rows.Scan(&e.GameID, &e.Seq, &e.Kind, &e.Points, &e.X, &e.Y, &e.Ghost, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// TopScores returns the best high scores, highest first.
func (s *PostgresStore) TopScores(ctx context.Context, limit int) ([]record.HighScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, player_name, score, level, difficulty, created_at
		 FROM high_scores ORDER BY score DESC, created_at ASC LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []record.HighScore
	for rows.Next() {
		var hs record.HighScore
		if err := rows.Scan(&hs.GameID, &hs.PlayerName, &hs.Score, &hs.Level, &hs.Difficulty, &hs.CreatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, hs)
	}
	return scores, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanGame(row pgx.Row) (*record.Game, error) {
	var g record.Game
	st := &g.Statistic
	err := row.Scan(&g.ID, &g.PlayerName, &g.Difficulty, &g.MazeID, &g.Status, &g.Level, &g.Score, &g.Lives,
		&g.CreatedAt, &g.UpdatedAt, &g.CompletedAt,
		&st.FinalScore, &st.LevelReached, &st.DurationSeconds, &st.DotsEaten,
		&st.PowerPelletsEaten, &st.GhostsEaten, &st.FruitsEaten)
	if err != nil {
		return nil, err
	}
	st.GameID = g.ID
	return &g, nil
}
