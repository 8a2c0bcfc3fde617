package liquid

import "fmt"

// Material identifies the liquid occupying a cell.
type Material uint8

const (
	// MaterialNone marks a cell holding no liquid.
	MaterialNone Material = iota
	// MaterialWater is the liquid injected by the gateway.
	MaterialWater
)

func (m Material) String() string {
	switch m {
	case MaterialNone:
		return "none"
	case MaterialWater:
		return "water"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// Direction enumerates the four cardinal neighbours of a cell.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// CardinalDirections lists the neighbour directions in their canonical order.
var CardinalDirections = [4]Direction{North, East, South, West}

// Offset returns the grid delta for d. North points towards y-1.
func (d Direction) Offset() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Coord identifies a grid cell.
type Coord struct {
	X, Y int
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Offset()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// LiquidState is the per-cell liquid record. Material is MaterialNone exactly
// when Amount is zero once a transition has been committed.
type LiquidState struct {
	Amount   int
	Material Material
	// Flow is the direction of the last unit that left or entered the cell.
	Flow Direction
}

// Empty reports whether the cell holds no liquid.
func (s *LiquidState) Empty() bool { return s == nil || s.Amount == 0 }

func (s *LiquidState) decrement(dir Direction) {
	if s.Amount > 0 {
		s.Amount--
	}
	s.Flow = dir
}

func (s *LiquidState) increment(dir Direction) {
	s.Amount++
	s.Flow = dir
}
