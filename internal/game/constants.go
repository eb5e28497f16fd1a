package game

import "time"

// Maze dimensions (cells)
const (
	MinMazeSize       = 10
	MaxMazeSize       = 50
	DefaultMazeWidth  = 19
	DefaultMazeHeight = 21
)

// Scoring
const (
	DotPoints         = 10
	PowerPelletPoints = 50
	GhostBasePoints   = 200
	MaxCombo          = 4
)

// Player limits
const (
	DefaultLives        = 3
	MaxLives            = 5
	DefaultPlayerName   = "Player"
	MaxPlayerNameLength = 100
)

// Power pellet
const (
	MinPowerDuration = 5 * time.Second
	MaxPowerDuration = 30 * time.Second
)

// Fruit bonus
const (
	FruitDuration = 10 * time.Second
)

// fruitThresholds are the dots-eaten counts that make a fruit appear.
var fruitThresholds = []int{70, 170}

// fruitPoints is indexed by level-1; later levels use the last entry.
var fruitPoints = []int{100, 300, 500, 700, 1000, 2000, 3000, 5000}

// Game timing
const (
	TickRate     = 60 // ticks per second
	TickInterval = time.Second / TickRate

	// MaxTickDuration caps the time one Tick simulates.
	MaxTickDuration = time.Second
)

// maxStepTravel is the furthest, in cells, any entity moves in one
// simulation sub-step.
const maxStepTravel = 0.5
