package geometry

import "fmt"

// Region is an axis-aligned rectangle of grid cells. Both corners are
// inclusive, so a Region always covers at least one cell.
type Region struct {
	BottomLeft Point
	TopRight   Point
}

// NewRegion builds a Region from its bottom-left and top-right corners.
// It panics if the corners are not ordered on both axes; callers construct
// regions from coordinates they control, so a mis-ordered pair is a bug.
func NewRegion(bottomLeft, topRight Point) Region {
	if bottomLeft.X > topRight.X || bottomLeft.Y > topRight.Y {
		panic(fmt.Sprintf("geometry: region corners out of order: bottom-left %v, top-right %v", bottomLeft, topRight))
	}
	return Region{BottomLeft: bottomLeft, TopRight: topRight}
}

// RegionOfSize builds the Region with the given bottom-left corner that
// spans exactly width x height cells.
func RegionOfSize(bottomLeft Point, width, height int) Region {
	return NewRegion(bottomLeft, Point{bottomLeft.X + width - 1, bottomLeft.Y + height - 1})
}

// Neighborhood returns the square Region of the given radius centered on c.
func Neighborhood(c Point, radius int) Region {
	return NewRegion(Point{c.X - radius, c.Y - radius}, Point{c.X + radius, c.Y + radius})
}

func (r Region) String() string {
	return fmt.Sprintf("[%v-%v]", r.BottomLeft, r.TopRight)
}

func (r Region) LeftX() int   { return r.BottomLeft.X }
func (r Region) RightX() int  { return r.TopRight.X }
func (r Region) BottomY() int { return r.BottomLeft.Y }
func (r Region) TopY() int    { return r.TopRight.Y }

// BottomRight returns the bottom-right corner.
func (r Region) BottomRight() Point {
	return Point{r.TopRight.X, r.BottomLeft.Y}
}

// TopLeft returns the top-left corner.
func (r Region) TopLeft() Point {
	return Point{r.BottomLeft.X, r.TopRight.Y}
}

// Corners returns the four corners: bottom-left, bottom-right, top-left, top-right.
func (r Region) Corners() [4]Point {
	return [4]Point{r.BottomLeft, r.BottomRight(), r.TopLeft(), r.TopRight}
}

// Width returns the number of columns covered.
func (r Region) Width() int {
	return r.TopRight.X - r.BottomLeft.X + 1
}

// Height returns the number of rows covered.
func (r Region) Height() int {
	return r.TopRight.Y - r.BottomLeft.Y + 1
}

// Area returns the number of cells covered.
func (r Region) Area() int {
	return r.Width() * r.Height()
}

// ForEach calls fn for every cell in row-major order, bottom row first.
func (r Region) ForEach(fn func(Point)) {
	for y := r.BottomY(); y <= r.TopY(); y++ {
		for x := r.LeftX(); x <= r.RightX(); x++ {
			fn(Point{x, y})
		}
	}
}

// All reports whether pred holds for every cell. It stops at the first miss.
func (r Region) All(pred func(Point) bool) bool {
	for y := r.BottomY(); y <= r.TopY(); y++ {
		for x := r.LeftX(); x <= r.RightX(); x++ {
			if !pred(Point{x, y}) {
				return false
			}
		}
	}
	return true
}

// Points returns every cell in row-major order.
func (r Region) Points() []Point {
	points := make([]Point, 0, r.Area())
	r.ForEach(func(p Point) {
		points = append(points, p)
	})
	return points
}

// Edge returns the one-cell-thick boundary of r on the side facing d.
func (r Region) Edge(d Direction) Region {
	switch d {
	case North:
		return Region{Point{r.LeftX(), r.TopY()}, Point{r.RightX(), r.TopY()}}
	case East:
		return Region{Point{r.RightX(), r.BottomY()}, Point{r.RightX(), r.TopY()}}
	case South:
		return Region{Point{r.LeftX(), r.BottomY()}, Point{r.RightX(), r.BottomY()}}
	case West:
		return Region{Point{r.LeftX(), r.BottomY()}, Point{r.LeftX(), r.TopY()}}
	default:
		return r
	}
}

// DirectionalEdge pairs a boundary with the direction it faces.
type DirectionalEdge struct {
	Direction Direction
	Edge      Region
}

// Edges returns the four boundaries in AllDirections order.
func (r Region) Edges() []DirectionalEdge {
	edges := make([]DirectionalEdge, 0, 4)
	for _, d := range AllDirections() {
		edges = append(edges, DirectionalEdge{Direction: d, Edge: r.Edge(d)})
	}
	return edges
}

// Translate shifts both corners amount steps in direction d.
func (r Region) Translate(d Direction, amount int) Region {
	offset := d.Unit().Scale(amount)
	return Region{r.BottomLeft.Add(offset), r.TopRight.Add(offset)}
}

// Grow pushes the side facing d outward by amount cells. Negative amounts
// are treated as zero.
func (r Region) Grow(d Direction, amount int) Region {
	if amount <= 0 {
		return r
	}
	switch d {
	case North:
		r.TopRight.Y += amount
	case East:
		r.TopRight.X += amount
	case South:
		r.BottomLeft.Y -= amount
	case West:
		r.BottomLeft.X -= amount
	}
	return r
}

// ContainsPoint reports whether p lies inside r, boundary included.
func (r Region) ContainsPoint(p Point) bool {
	return p.X >= r.LeftX() && p.X <= r.RightX() && p.Y >= r.BottomY() && p.Y <= r.TopY()
}

// ContainsRegion reports whether every corner of other lies inside r.
func (r Region) ContainsRegion(other Region) bool {
	for _, c := range other.Corners() {
		if !r.ContainsPoint(c) {
			return false
		}
	}
	return true
}

// Overlaps reports whether any corner of either region lies inside the
// other. This is a corner test, not interval intersection: two regions
// crossing like a plus sign share cells yet have no corner inside each
// other, and Overlaps returns false for them.
func (r Region) Overlaps(other Region) bool {
	for _, c := range r.Corners() {
		if other.ContainsPoint(c) {
			return true
		}
	}
	for _, c := range other.Corners() {
		if r.ContainsPoint(c) {
			return true
		}
	}
	return false
}
