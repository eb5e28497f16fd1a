package game

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Pacman is the player-controlled entity. Times are on the session clock.
type Pacman struct {
	Position          Position      `json:"position"`
	Direction         Direction     `json:"direction"`
	Next              Direction     `json:"next_direction"`
	Speed             float64       `json:"speed"`
	Lives             int           `json:"lives"`
	InvulnerableUntil time.Duration `json:"invulnerable_until"`
	Spawn             Cell          `json:"spawn"`
}

// Respawn puts Pac-Man back on its spawn, stopped, invulnerable until the
// given time.
func (p *Pacman) Respawn(invulnerableUntil time.Duration) {
	p.Position = p.Spawn.Center()
	p.Direction = DirNone
	p.Next = DirNone
	p.InvulnerableUntil = invulnerableUntil
}

// Invulnerable reports whether normal ghosts are harmless at time now.
func (p *Pacman) Invulnerable(now time.Duration) bool {
	return now < p.InvulnerableUntil
}

// Score is the running score of a session.
type Score struct {
	Points       int `json:"points"`
	Dots         int `json:"dots"`
	PowerPellets int `json:"power_pellets"`
	Ghosts       int `json:"ghosts"`
	Fruits       int `json:"fruits"`
	// Combo multiplies the next ghost eat: 200 * 2^(Combo-1). Always 1..4.
	Combo int `json:"combo"`
	Bonus int `json:"bonus"`
}

// PowerEffect is the state of the current power-pellet activation.
type PowerEffect struct {
	Active      bool          `json:"active"`
	ActivatedAt time.Duration `json:"activated_at"`
	Duration    time.Duration `json:"duration"`
	GhostsEaten int           `json:"ghosts_eaten"`
}

// EndsAt is the session time the activation runs out.
func (e PowerEffect) EndsAt() time.Duration {
	return e.ActivatedAt + e.Duration
}

// Fruit is the bonus item that appears after enough dots are eaten.
type Fruit struct {
	Active    bool          `json:"active"`
	Cell      Cell          `json:"cell"`
	Points    int           `json:"points"`
	ExpiresAt time.Duration `json:"expires_at"`
	Spawned   int           `json:"spawned"`
}

// FruitPoints returns the fruit value for a level.
func FruitPoints(level int) int {
	i := min(max(level, 1), len(fruitPoints)) - 1
	return fruitPoints[i]
}

// NormalizePlayerName trims a player name and keeps it within
// MaxPlayerNameLength characters.
func NormalizePlayerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		name = string([]rune(name)[:MaxPlayerNameLength])
	}
	return name
}
