package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ugaemi/pacman-server/internal/record"
)

// SQLiteStore implements GameStore using a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
		PRAGMA foreign_keys = ON;
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			player_name TEXT NOT NULL DEFAULT 'Player',
			difficulty TEXT NOT NULL DEFAULT 'normal',
			maze_id TEXT NOT NULL DEFAULT 'classic',
			status TEXT NOT NULL,
			current_level INTEGER NOT NULL DEFAULT 1,
			score INTEGER NOT NULL DEFAULT 0,
			lives INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			completed_at TEXT
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
			created_at TEXT NOT NULL
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
			created_at TEXT NOT NULL,
			PRIMARY KEY (game_id, seq)
		);
		CREATE TABLE IF NOT EXISTS game_states (
			game_id TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
			state_data TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveGame inserts or replaces the record of a session in one transaction.
func (s *SQLiteStore) SaveGame(ctx context.Context, g *record.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	var completed any
	if g.CompletedAt != nil {
		completed = formatTime(*g.CompletedAt)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, player_name, difficulty, maze_id, status, current_level, score, lives, created_at, updated_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     status = excluded.status, current_level = excluded.current_level,
		     score = excluded.score, lives = excluded.lives,
		     updated_at = excluded.updated_at, completed_at = excluded.completed_at`,
		g.ID, g.PlayerName, g.Difficulty, g.MazeID, g.Status, g.Level, g.Score, g.Lives,
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt), completed)
	if err != nil {
		return fmt.Errorf("storage: cannot save game %s: %w", g.ID, err)
	}

	st := g.Statistic
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO game_statistics
		 (game_id, final_score, level_reached, duration_seconds, dots_eaten, power_pellets_eaten, ghosts_eaten, fruits_eaten)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, st.FinalScore, st.LevelReached, st.DurationSeconds, st.DotsEaten, st.PowerPelletsEaten, st.GhostsEaten, st.FruitsEaten)
	if err != nil {
		return fmt.Errorf("storage: cannot save statistic %s: %w", g.ID, err)
	}

	if hs := g.HighScore; hs != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO high_scores (game_id, player_name, score, level, difficulty, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, hs.PlayerName, hs.Score, hs.Level, hs.Difficulty, formatTime(hs.CreatedAt))
		if err != nil {
			return fmt.Errorf("storage: cannot save high score %s: %w", g.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM score_events WHERE game_id = ?`, g.ID); err != nil {
		return fmt.Errorf("storage: cannot clear score events %s: %w", g.ID, err)
	}
	for _, e := range g.Events {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO score_events (game_id, seq, event_type, points, x, y, ghost, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, e.Seq, e.Kind, e.Points, e.X, e.Y, e.Ghost, formatTime(e.OccurredAt))
		if err != nil {
			return fmt.Errorf("storage: cannot save score event %s/%d: %w", g.ID, e.Seq, err)
		}
	}

	if len(g.StateData) > 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO game_states (game_id, state_data, created_at) VALUES (?, ?, ?)`,
			g.ID, string(g.StateData), formatTime(g.UpdatedAt))
		if err != nil {
			return fmt.Errorf("storage: cannot save state %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

// FindGame looks up a game and its statistic by session ID.
func (s *SQLiteStore) FindGame(ctx context.Context, id string) (*record.Game, error) {
	var g record.Game
	var createdAt, updatedAt any
	var completedAt sql.NullString
	st := &g.Statistic

	err := s.db.QueryRowContext(ctx,
		`SELECT g.id, g.player_name, g.difficulty, g.maze_id, g.status, g.current_level, g.score, g.lives,
		        g.created_at, g.updated_at, g.completed_at,
		        st.final_score, st.level_reached, st.duration_seconds, st.dots_eaten,
		        st.power_pellets_eaten, st.ghosts_eaten, st.fruits_eaten
		 FROM games g JOIN game_statistics st ON st.game_id = g.id
		 WHERE g.id = ?`, id,
	).Scan(&g.ID, &g.PlayerName, &g.Difficulty, &g.MazeID, &g.Status, &g.Level, &g.Score, &g.Lives,
		&createdAt, &updatedAt, &completedAt,
		&st.FinalScore, &st.LevelReached, &st.DurationSeconds, &st.DotsEaten,
		&st.PowerPelletsEaten, &st.GhostsEaten, &st.FruitsEaten)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}

	st.GameID = g.ID
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		g.CompletedAt = &t
	}
	return &g, nil
}

// ScoreEvents returns the score events of a game in order.
func (s *SQLiteStore) ScoreEvents(ctx context.Context, gameID string) ([]record.ScoreEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, seq, event_type, points, x, y, ghost, created_at
		 FROM score_events WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query score events: %w", err)
	}
	defer rows.Close()

	var events []record.ScoreEvent
	for rows.Next() {
		var e record.ScoreEvent
		var createdAt any
		if err := rows.Scan(&e.GameID, &e.Seq, &e.Kind, &e.Points, &e.X, &e.Y, &e.Ghost, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.OccurredAt = parseTime(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return events, nil
}

// TopScores returns the best high scores, highest first.
func (s *SQLiteStore) TopScores(ctx context.Context, limit int) ([]record.HighScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, player_name, score, level, difficulty, created_at
		 FROM high_scores
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var scores []record.HighScore
	for rows.Next() {
		var hs record.HighScore
		var createdAt any
		if err := rows.Scan(&hs.GameID, &hs.PlayerName, &hs.Score, &hs.Level, &hs.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		hs.CreatedAt = parseTime(createdAt)
		scores = append(scores, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return scores, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads a timestamp column; the driver may hand back either a
// time.Time or the stored text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case []byte:
		if t, err := time.Parse(time.RFC3339Nano, string(v)); err == nil {
			return t
		}
	}
	return time.Time{}
}
