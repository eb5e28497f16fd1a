package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a ghost or session is asked to make
// a state change its current state does not allow.
var ErrInvalidTransition = errors.New("invalid transition")

// Personality identifies one of the four ghosts and its targeting rule.
type Personality int

const (
	Chaser Personality = iota
	Ambusher
	Patrol
	Shy
)

// Personalities lists every personality in spawn and processing order.
var Personalities = []Personality{Chaser, Ambusher, Patrol, Shy}

func (p Personality) String() string {
	switch p {
	case Chaser:
		return "chaser"
	case Ambusher:
		return "ambusher"
	case Patrol:
		return "patrol"
	case Shy:
		return "shy"
	default:
		return "unknown"
	}
}

// ParsePersonality parses a personality name.
func ParsePersonality(s string) (Personality, bool) {
	for _, p := range Personalities {
		if p.String() == s {
			return p, true
		}
	}
	return Chaser, false
}

// MarshalText lets Personality serve as a JSON string and map key.
func (p Personality) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a personality name.
func (p *Personality) UnmarshalText(text []byte) error {
	parsed, ok := ParsePersonality(string(text))
	if !ok {
		return fmt.Errorf("unknown ghost personality %q", text)
	}
	*p = parsed
	return nil
}

// GhostMode is the behaviour state of a ghost.
type GhostMode int

const (
	ModeNormal GhostMode = iota
	ModeVulnerable
	ModeEaten
	ModeReturning
)

func (m GhostMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeVulnerable:
		return "vulnerable"
	case ModeEaten:
		return "eaten"
	case ModeReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// MarshalText serializes GhostMode as a string.
func (m GhostMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText deserializes GhostMode from a string.
func (m *GhostMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "vulnerable":
		*m = ModeVulnerable
	case "eaten":
		*m = ModeEaten
	case "returning":
		*m = ModeReturning
	default:
		*m = ModeNormal
	}
	return nil
}

// Ghost is the state of one ghost. Times are on the session clock.
type Ghost struct {
	Personality     Personality   `json:"personality"`
	Position        Position      `json:"position"`
	Direction       Direction     `json:"direction"`
	Mode            GhostMode     `json:"mode"`
	Target          Cell          `json:"target"`
	Speed           float64       `json:"speed"`
	VulnerableUntil time.Duration `json:"vulnerable_until"`
	ExitAt          time.Duration `json:"exit_at"`
	Spawn           Cell          `json:"spawn"`
}

// Frighten makes a normal ghost vulnerable until the given time and turns it
// around. A vulnerable ghost only has its timer refreshed.
func (g *Ghost) Frighten(until time.Duration, speed float64) error {
	switch g.Mode {
	case ModeNormal:
		g.Mode = ModeVulnerable
		g.Direction = g.Direction.Opposite()
	case ModeVulnerable:
	default:
		return fmt.Errorf("%w: %s ghost cannot become vulnerable while %s", ErrInvalidTransition, g.Personality, g.Mode)
	}
	g.VulnerableUntil = until
	g.Speed = speed
	return nil
}

// Calm ends vulnerability.
func (g *Ghost) Calm(speed float64) error {
	if g.Mode != ModeVulnerable {
		return fmt.Errorf("%w: %s ghost is %s, not vulnerable", ErrInvalidTransition, g.Personality, g.Mode)
	}
	g.Mode = ModeNormal
	g.VulnerableUntil = 0
	g.Speed = speed
	return nil
}

// Eat marks a vulnerable ghost as eaten.
func (g *Ghost) Eat() error {
	if g.Mode != ModeVulnerable {
		return fmt.Errorf("%w: %s ghost is %s, not vulnerable", ErrInvalidTransition, g.Personality, g.Mode)
	}
	g.Mode = ModeEaten
	g.VulnerableUntil = 0
	return nil
}

// BeginReturn sends an eaten ghost back to its spawn.
func (g *Ghost) BeginReturn(speed float64) error {
	if g.Mode != ModeEaten {
		return fmt.Errorf("%w: %s ghost is %s, not eaten", ErrInvalidTransition, g.Personality, g.Mode)
	}
	g.Mode = ModeReturning
	g.Speed = speed
	g.Target = g.Spawn
	return nil
}

// Revive turns a returning ghost back to normal on its spawn.
func (g *Ghost) Revive(speed float64, exitAt time.Duration) error {
	if g.Mode != ModeReturning {
		return fmt.Errorf("%w: %s ghost is %s, not returning", ErrInvalidTransition, g.Personality, g.Mode)
	}
	g.ResetToSpawn(speed, exitAt)
	return nil
}

// ResetToSpawn puts the ghost back on its spawn in normal mode.
func (g *Ghost) ResetToSpawn(speed float64, exitAt time.Duration) {
	g.Position = g.Spawn.Center()
	g.Direction = DirNone
	g.Mode = ModeNormal
	g.Speed = speed
	g.VulnerableUntil = 0
	g.ExitAt = exitAt
}

// Threatening reports whether touching the ghost costs Pac-Man a life.
func (g *Ghost) Threatening() bool {
	return g.Mode == ModeNormal
}

// homeCorner is the corner a personality retreats to.
func homeCorner(p Personality, m *Maze) Cell {
	switch p {
	case Chaser:
		return Cell{X: m.Width() - 1, Y: 0}
	case Ambusher:
		return Cell{X: 0, Y: 0}
	case Patrol:
		return Cell{X: m.Width() - 1, Y: m.Height() - 1}
	default:
		return Cell{X: 0, Y: m.Height() - 1}
	}
}

// chaseTarget is the per-personality target while hunting Pac-Man.
func chaseTarget(p Personality, self, pac Cell, pacDir Direction, chaser Cell, m *Maze, st Settings) Cell {
	switch p {
	case Ambusher:
		return pac.Step(pacDir, st.AmbushLead)
	case Patrol:
		if cellDistance(chaser, pac) > st.PatrolRadius {
			return homeCorner(Patrol, m)
		}
		pivot := pac.Step(pacDir, 2)
		return Cell{X: 2*pivot.X - chaser.X, Y: 2*pivot.Y - chaser.Y}
	case Shy:
		if cellDistance(self, pac) < st.ShyRadius {
			return homeCorner(Shy, m)
		}
		return pac
	default:
		return pac
	}
}

// chooseDirection picks the enterable neighbour closest to target, never
// reversing unless it is the only way out.
func chooseDirection(m *Maze, at Cell, cur Direction, target Cell, house bool) Direction {
	best := DirNone
	bestDist := 0
	for _, d := range steerOrder {
		if cur != DirNone && d == cur.Opposite() {
			continue
		}
		n, ok := enterable(m, at, d, house)
		if !ok {
			continue
		}
		dist := n.dist2(target)
		if best == DirNone || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if best == DirNone && cur != DirNone {
		if _, ok := enterable(m, at, cur.Opposite(), house); ok {
			return cur.Opposite()
		}
	}
	return best
}
