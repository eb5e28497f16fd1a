package game

import "math"

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the cell n cells away from c along d.
func (c Cell) Step(d Direction, n int) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx*n, Y: c.Y + dy*n}
}

// Center returns the position of the centre of c.
func (c Cell) Center() Position {
	return Position{X: float64(c.X), Y: float64(c.Y)}
}

// dist2 is the squared Euclidean distance between two cells.
func (c Cell) dist2(o Cell) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// Position is a continuous coordinate in grid units. Cell centres sit on
// integer coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// alignEpsilon is how close to a cell centre counts as being on it.
const alignEpsilon = 1e-6

// Cell returns the cell containing p. Halfway points belong to the cell
// on the positive side.
func (p Position) Cell() Cell {
	return Cell{X: int(math.Floor(p.X + 0.5)), Y: int(math.Floor(p.Y + 0.5))}
}

// Aligned reports whether p sits on the centre of its cell.
func (p Position) Aligned() bool {
	c := p.Cell()
	return math.Abs(p.X-float64(c.X)) < alignEpsilon && math.Abs(p.Y-float64(c.Y)) < alignEpsilon
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// PositionDistance is Distance for two positions.
func PositionDistance(a, b Position) float64 {
	return Distance(a.X, a.Y, b.X, b.Y)
}

func cellDistance(a, b Cell) float64 {
	return math.Sqrt(float64(a.dist2(b)))
}
