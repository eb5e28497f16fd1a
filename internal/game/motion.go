package game

import "math"

// Body is the moving part of Pac-Man or a ghost.
type Body struct {
	Pos   Position
	Dir   Direction
	Next  Direction
	Speed float64 // cells per second
}

// MoveRules tune Move for the kind of entity being moved.
type MoveRules struct {
	// House allows entering ghost-house cells from outside. A body already
	// inside the house may always move within it and leave it.
	House bool
	// Steer, when set, is called on every cell centre the body passes. It
	// returns the direction to queue (DirNone keeps the current queue) and
	// whether the body should stop on this centre.
	Steer func(at Cell, dir Direction) (next Direction, halt bool)
}

// enterable returns the cell reached by stepping from `from` along d and
// whether the body may enter it.
func enterable(m *Maze, from Cell, d Direction, house bool) (Cell, bool) {
	if !d.Valid() {
		return from, false
	}
	n, ok := m.Neighbor(from, d)
	if !ok {
		return n, false
	}
	return n, m.CanEnter(n, house || m.IsHouse(from))
}

// Move advances b by Speed*dt cells through the maze.
//
// A queued turn is committed only on a cell centre and only when the cell
// in the new direction can be entered; a queued reversal is committed
// anywhere. A body facing a wall stops on the centre of its cell and keeps
// its direction. Crossing the outer half of a linked tunnel endpoint moves
// the body to the matching half of the other endpoint.
func Move(m *Maze, b Body, dt float64, rules MoveRules) Body {
	remaining := b.Speed * dt
	if remaining <= 0 {
		return b
	}

	guard := 4*int(math.Ceil(remaining)) + 8
	for i := 0; remaining > alignEpsilon && i < guard; i++ {
		if b.Next != DirNone && b.Next == b.Dir.Opposite() {
			b.Dir, b.Next = b.Next, DirNone
		}

		if b.Pos.Aligned() {
			at := b.Pos.Cell()
			b.Pos = at.Center()

			if rules.Steer != nil {
				next, halt := rules.Steer(at, b.Dir)
				if halt {
					return b
				}
				if next != DirNone {
					b.Next = next
				}
			}
			if b.Next.Valid() {
				if _, ok := enterable(m, at, b.Next, rules.House); ok {
					b.Dir, b.Next = b.Next, DirNone
				}
			}
			if _, ok := enterable(m, at, b.Dir, rules.House); !ok {
				return b
			}

			step := math.Min(remaining, 1)
			b.Pos = advance(b.Pos, b.Dir, step)
			remaining -= step
		} else {
			if !b.Dir.Valid() {
				b.Pos = b.Pos.Cell().Center()
				return b
			}
			d := distanceAhead(b.Pos, b.Dir)
			step := math.Min(remaining, d)
			b.Pos = advance(b.Pos, b.Dir, step)
			remaining -= step
		}

		b.Pos = wrapPosition(m, b.Pos)
	}
	return b
}

func advance(p Position, d Direction, step float64) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + float64(dx)*step, Y: p.Y + float64(dy)*step}
}

// distanceAhead is the distance from p to the next cell centre along d.
func distanceAhead(p Position, d Direction) float64 {
	switch d {
	case DirRight:
		return math.Ceil(p.X) - p.X
	case DirLeft:
		return p.X - math.Floor(p.X)
	case DirDown:
		return math.Ceil(p.Y) - p.Y
	case DirUp:
		return p.Y - math.Floor(p.Y)
	default:
		return 0
	}
}

// wrapPosition shifts a position whose cell fell off the grid through the
// tunnel it left by.
func wrapPosition(m *Maze, p Position) Position {
	c := p.Cell()
	if m.InBounds(c) {
		return p
	}
	w := m.WrapIfTunnel(c)
	if w == c {
		return Position{X: float64(clampInt(c.X, 0, m.width-1)), Y: float64(clampInt(c.Y, 0, m.height-1))}
	}
	return Position{X: p.X + float64(w.X-c.X), Y: p.Y + float64(w.Y-c.Y)}
}
