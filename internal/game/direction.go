package game

import "encoding/json"

// Direction is a movement direction along the maze grid.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirLeft
	DirDown
	DirRight
)

// steerOrder is the tie-break order used when two moves are equally good.
var steerOrder = [...]Direction{DirUp, DirLeft, DirDown, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection parses a direction name. It reports false for anything
// other than up, down, left, right or none.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "left":
		return DirLeft, true
	case "down":
		return DirDown, true
	case "right":
		return DirRight, true
	case "none", "":
		return DirNone, true
	default:
		return DirNone, false
	}
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Opposite returns the reverse direction. DirNone has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the unit grid offset for d.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// MarshalJSON serializes Direction as a string.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON deserializes Direction from a string.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, _ := ParseDirection(s)
	*d = parsed
	return nil
}
