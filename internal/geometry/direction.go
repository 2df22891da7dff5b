package geometry

// Direction represents a cardinal direction on the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
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
	default:
		return "unknown"
	}
}

// Unit returns the unit vector for the direction. North points toward
// increasing Y because the grid origin is the bottom-left corner.
func (d Direction) Unit() Point {
	switch d {
	case North:
		return Point{0, 1}
	case East:
		return Point{1, 0}
	case South:
		return Point{0, -1}
	case West:
		return Point{-1, 0}
	default:
		return Point{}
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Orthogonal returns the two directions perpendicular to d
func (d Direction) Orthogonal() [2]Direction {
	switch d {
	case North, South:
		return [2]Direction{East, West}
	default:
		return [2]Direction{North, South}
	}
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}
