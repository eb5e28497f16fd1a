package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPosition is returned for coordinates outside the maze.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidLayout is returned when a layout cannot be turned into a maze.
	ErrInvalidLayout = errors.New("invalid maze layout")
)

// CellType is the static content of a maze cell.
type CellType int

const (
	CellWall CellType = iota
	CellEmpty
	CellDot
	CellPowerPellet
	CellTunnel
	CellGhostHouse
)

func (t CellType) String() string {
	switch t {
	case CellWall:
		return "wall"
	case CellEmpty:
		return "empty"
	case CellDot:
		return "dot"
	case CellPowerPellet:
		return "power_pellet"
	case CellTunnel:
		return "tunnel"
	case CellGhostHouse:
		return "ghost_house"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes CellType as a string.
func (t CellType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Layout characters.
const (
	runeWall        = '#'
	runeEmpty       = ' '
	runeDot         = '.'
	runePowerPellet = 'o'
	runeTunnel      = 'T'
	runeGhostHouse  = 'H'
)

func cellTypeFromRune(r rune) (CellType, bool) {
	switch r {
	case runeWall:
		return CellWall, true
	case runeEmpty:
		return CellEmpty, true
	case runeDot:
		return CellDot, true
	case runePowerPellet:
		return CellPowerPellet, true
	case runeTunnel:
		return CellTunnel, true
	case runeGhostHouse:
		return CellGhostHouse, true
	default:
		return CellWall, false
	}
}

// Rune returns the layout character for t.
func (t CellType) Rune() rune {
	switch t {
	case CellEmpty:
		return runeEmpty
	case CellDot:
		return runeDot
	case CellPowerPellet:
		return runePowerPellet
	case CellTunnel:
		return runeTunnel
	case CellGhostHouse:
		return runeGhostHouse
	default:
		return runeWall
	}
}

// Pickup is what Pac-Man collects by entering a cell.
type Pickup int

const (
	PickupNone Pickup = iota
	PickupDot
	PickupPowerPellet
)

func (p Pickup) String() string {
	switch p {
	case PickupDot:
		return "dot"
	case PickupPowerPellet:
		return "power_pellet"
	default:
		return "none"
	}
}

// Layout describes a maze before play: the cell grid as rows of layout
// characters plus spawn points. Width and Height may be left zero and are
// then taken from Rows.
type Layout struct {
	ID          string
	Name        string
	Width       int
	Height      int
	Rows        []string
	PacmanSpawn Cell
	GhostSpawns map[Personality]Cell
	HouseExit   Cell
	// FruitCell defaults to PacmanSpawn when nil.
	FruitCell *Cell
}

// Maze is a cell grid with dot and power-pellet occupancy. The grid, spawns
// and tunnel links never change after construction; only occupancy does, and
// each session owns its own copy via Clone.
type Maze struct {
	layout  *Layout
	width   int
	height  int
	cells   []CellType
	edible  []Pickup
	tunnels map[Cell]Cell

	totalDots    int
	totalPellets int
}

// NewMaze validates a layout and builds a maze from it.
func NewMaze(l Layout) (*Maze, error) {
	height := len(l.Rows)
	if height == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	width := len([]rune(l.Rows[0]))
	if l.Width != 0 && l.Width != width {
		return nil, fmt.Errorf("%w: width %d does not match rows (%d)", ErrInvalidLayout, l.Width, width)
	}
	if l.Height != 0 && l.Height != height {
		return nil, fmt.Errorf("%w: height %d does not match rows (%d)", ErrInvalidLayout, l.Height, height)
	}
	if width < MinMazeSize || width > MaxMazeSize || height < MinMazeSize || height > MaxMazeSize {
		return nil, fmt.Errorf("%w: size %dx%d outside %d..%d", ErrInvalidLayout, width, height, MinMazeSize, MaxMazeSize)
	}

	m := &Maze{
		width:   width,
		height:  height,
		cells:   make([]CellType, width*height),
		edible:  make([]Pickup, width*height),
		tunnels: make(map[Cell]Cell),
	}

	for y, row := range l.Rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLayout, y, len(runes), width)
		}
		for x, r := range runes {
			t, ok := cellTypeFromRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)", ErrInvalidLayout, r, x, y)
			}
			i := y*width + x
			m.cells[i] = t
			switch t {
			case CellDot:
				m.edible[i] = PickupDot
				m.totalDots++
			case CellPowerPellet:
				m.edible[i] = PickupPowerPellet
				m.totalPellets++
			}
		}
	}

	m.linkTunnels()

	if err := m.validateSpawns(&l); err != nil {
		return nil, err
	}

	frozen := l
	frozen.Width, frozen.Height = width, height
	frozen.Rows = append([]string(nil), l.Rows...)
	frozen.GhostSpawns = make(map[Personality]Cell, len(l.GhostSpawns))
	for p, c := range l.GhostSpawns {
		frozen.GhostSpawns[p] = c
	}
	if frozen.FruitCell == nil {
		fruit := l.PacmanSpawn
		frozen.FruitCell = &fruit
	} else {
		fruit := *l.FruitCell
		frozen.FruitCell = &fruit
	}
	m.layout = &frozen
	return m, nil
}

// linkTunnels pairs tunnel cells on opposite edges of the same row or column.
func (m *Maze) linkTunnels() {
	for y := 0; y < m.height; y++ {
		a, b := Cell{X: 0, Y: y}, Cell{X: m.width - 1, Y: y}
		if m.at(a) == CellTunnel && m.at(b) == CellTunnel {
			m.tunnels[a] = b
			m.tunnels[b] = a
		}
	}
	for x := 1; x < m.width-1; x++ {
		a, b := Cell{X: x, Y: 0}, Cell{X: x, Y: m.height - 1}
		if m.at(a) == CellTunnel && m.at(b) == CellTunnel {
			m.tunnels[a] = b
			m.tunnels[b] = a
		}
	}
}

func (m *Maze) validateSpawns(l *Layout) error {
	if !m.CanEnter(l.PacmanSpawn, false) {
		return fmt.Errorf("%w: pacman spawn (%d,%d) is not walkable", ErrInvalidLayout, l.PacmanSpawn.X, l.PacmanSpawn.Y)
	}
	for _, p := range Personalities {
		c, ok := l.GhostSpawns[p]
		if !ok {
			return fmt.Errorf("%w: missing spawn for %s", ErrInvalidLayout, p)
		}
		if !m.IsWalkable(c) {
			return fmt.Errorf("%w: %s spawn (%d,%d) is not walkable", ErrInvalidLayout, p, c.X, c.Y)
		}
	}
	if !m.CanEnter(l.HouseExit, false) {
		return fmt.Errorf("%w: house exit (%d,%d) must be a walkable cell outside the house", ErrInvalidLayout, l.HouseExit.X, l.HouseExit.Y)
	}
	if l.FruitCell != nil && !m.CanEnter(*l.FruitCell, false) {
		return fmt.Errorf("%w: fruit cell (%d,%d) is not walkable", ErrInvalidLayout, l.FruitCell.X, l.FruitCell.Y)
	}
	return nil
}

// Clone returns a copy with independent occupancy.
func (m *Maze) Clone() *Maze {
	c := *m
	c.edible = append([]Pickup(nil), m.edible...)
	return &c
}

// Layout returns the layout the maze was built from.
func (m *Maze) Layout() Layout { return *m.layout }

func (m *Maze) Width() int { return m.width }
func (m *Maze) Height() int { return m.height }
func (m *Maze) TotalDots() int { return m.totalDots }
func (m *Maze) TotalPellets() int { return m.totalPellets }
func (m *Maze) PacmanSpawn() Cell { return m.layout.PacmanSpawn }
func (m *Maze) HouseExit() Cell { return m.layout.HouseExit }
func (m *Maze) FruitCell() Cell { return *m.layout.FruitCell }
func (m *Maze) GhostSpawn(p Personality) Cell { return m.layout.GhostSpawns[p] }

// InBounds reports whether c lies inside the grid.
func (m *Maze) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < m.width && c.Y >= 0 && c.Y < m.height
}

func (m *Maze) at(c Cell) CellType {
	return m.cells[c.Y*m.width+c.X]
}

// CellAt returns the current type of a cell. Dot and power-pellet cells
// read as empty once consumed.
func (m *Maze) CellAt(c Cell) (CellType, error) {
	if !m.InBounds(c) {
		return CellWall, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidPosition, c.X, c.Y, m.width, m.height)
	}
	t := m.at(c)
	if (t == CellDot || t == CellPowerPellet) && m.edible[c.Y*m.width+c.X] == PickupNone {
		return CellEmpty, nil
	}
	return t, nil
}

// IsWalkable reports whether c is inside the grid and not a wall. Tunnel
// endpoints are walkable.
func (m *Maze) IsWalkable(c Cell) bool {
	return m.InBounds(c) && m.at(c) != CellWall
}

// IsHouse reports whether c is a ghost-house cell.
func (m *Maze) IsHouse(c Cell) bool {
	return m.InBounds(c) && m.at(c) == CellGhostHouse
}

// CanEnter is IsWalkable with ghost-house access: house cells are only
// enterable when house is true.
func (m *Maze) CanEnter(c Cell, house bool) bool {
	if !m.IsWalkable(c) {
		return false
	}
	return house || m.at(c) != CellGhostHouse
}

// ConsumeDotAt removes and returns whatever is edible at c. Further calls
// for the same cell return PickupNone.
func (m *Maze) ConsumeDotAt(c Cell) (Pickup, error) {
	if !m.InBounds(c) {
		return PickupNone, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidPosition, c.X, c.Y, m.width, m.height)
	}
	i := c.Y*m.width + c.X
	p := m.edible[i]
	m.edible[i] = PickupNone
	return p, nil
}

// RemainingPickups counts dots and power pellets still on the board.
func (m *Maze) RemainingPickups() (dots, pellets int) {
	for _, p := range m.edible {
		switch p {
		case PickupDot:
			dots++
		case PickupPowerPellet:
			pellets++
		}
	}
	return dots, pellets
}

// WrapIfTunnel maps a cell just past a linked tunnel endpoint to the
// endpoint it links to. Any other cell is returned unchanged.
func (m *Maze) WrapIfTunnel(c Cell) Cell {
	if m.InBounds(c) {
		return c
	}
	edge := Cell{X: clampInt(c.X, 0, m.width-1), Y: clampInt(c.Y, 0, m.height-1)}
	if link, ok := m.tunnels[edge]; ok {
		return link
	}
	return c
}

// Neighbor returns the cell one step from c along d, following tunnel
// links. It reports false when the step leaves the grid without a link.
func (m *Maze) Neighbor(c Cell, d Direction) (Cell, bool) {
	n := c.Step(d, 1)
	if m.InBounds(n) {
		return n, true
	}
	w := m.WrapIfTunnel(n)
	if w == n {
		return n, false
	}
	return w, true
}

// Rows renders the current grid, consumed dots included, as layout rows.
func (m *Maze) Rows() []string {
	rows := make([]string, m.height)
	var b strings.Builder
	for y := 0; y < m.height; y++ {
		b.Reset()
		for x := 0; x < m.width; x++ {
			t, _ := m.CellAt(Cell{X: x, Y: y})
			b.WriteRune(t.Rune())
		}
		rows[y] = b.String()
	}
	return rows
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
