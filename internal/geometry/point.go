package geometry

import (
	"fmt"
	"math"
)

// Origin is the bottom-left corner of every grid.
var Origin = Point{}

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

// Step returns p moved n units in direction d.
func (p Point) Step(d Direction, n int) Point {
	return p.Add(d.Unit().Scale(n))
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceFromOrigin returns the Euclidean distance from (0, 0).
func (p Point) DistanceFromOrigin() float64 {
	return p.Distance(Origin)
}

// Less reports whether p is strictly closer to the origin than q.
func (p Point) Less(q Point) bool {
	return p.DistanceFromOrigin() < q.DistanceFromOrigin()
}
