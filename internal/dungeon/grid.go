package dungeon

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/dungeonbuilder/internal/geometry"
)

// Cell is the state of a single grid cell
type Cell uint8

const (
	Wall         Cell = iota // Impassable; every cell starts here
	RoomFloor                // Carved by room placement
	PassageFloor             // Carved by passage carving
)

// String returns the string representation of a Cell
func (c Cell) String() string {
	switch c {
	case Wall:
		return "wall"
	case RoomFloor:
		return "room"
	case PassageFloor:
		return "passage"
	default:
		return "unknown"
	}
}

// Glyph returns the single-character form used by text renderers and layout files.
func (c Cell) Glyph() byte {
	switch c {
	case RoomFloor:
		return '.'
	case PassageFloor:
		return ','
	default:
		return '#'
	}
}

// CellFromGlyph is the inverse of Cell.Glyph.
func CellFromGlyph(g byte) (Cell, bool) {
	switch g {
	case '#':
		return Wall, true
	case '.':
		return RoomFloor, true
	case ',':
		return PassageFloor, true
	default:
		return Wall, false
	}
}

// Traversable reports whether a cell can be walked on. Room and passage
// floors behave identically once carved.
func Traversable(c Cell) bool {
	return c == RoomFloor || c == PassageFloor
}

// View is the read-only surface handed to renderers and other consumers.
type View interface {
	Width() int
	Height() int
	// CellAt returns false for coordinates outside the grid.
	CellAt(x, y int) (Cell, bool)
	// ForEach visits every cell row by row, starting at y = 0.
	ForEach(fn func(geometry.Point, Cell))
}

// Grid is a width x height array of cells with (0, 0) at the bottom-left.
type Grid struct {
	width, height int
	cells         []Cell
}

// NewGrid allocates a grid with every cell set to Wall.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Bounds returns the Region covering the whole grid.
func (g *Grid) Bounds() geometry.Region {
	return geometry.RegionOfSize(geometry.Origin, g.width, g.height)
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// CellAt returns the cell at (x, y), or false if the coordinate is off-grid.
func (g *Grid) CellAt(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Wall, false
	}
	return g.cells[y*g.width+x], true
}

// At is CellAt for a Point.
func (g *Grid) At(p geometry.Point) (Cell, bool) {
	return g.CellAt(p.X, p.Y)
}

// set writes a cell; off-grid writes are ignored.
func (g *Grid) set(p geometry.Point, c Cell) {
	if g.InBounds(p.X, p.Y) {
		g.cells[p.Y*g.width+p.X] = c
	}
}

// fill writes c into every on-grid cell of r.
func (g *Grid) fill(r geometry.Region, c Cell) {
	r.ForEach(func(p geometry.Point) {
		g.set(p, c)
	})
}

// ForEach visits every cell in row-major order, bottom row first.
func (g *Grid) ForEach(fn func(geometry.Point, Cell)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(geometry.Point{X: x, Y: y}, g.cells[y*g.width+x])
		}
	}
}

// Count returns how many cells hold c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy, useful for keeping animation frames.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Rows returns the grid as glyph strings, top row first.
func (g *Grid) Rows() []string {
	return Rows(g)
}

// Rows renders any View as glyph strings, top row first.
func Rows(v View) []string {
	rows := make([]string, 0, v.Height())
	var b strings.Builder
	for y := v.Height() - 1; y >= 0; y-- {
		b.Reset()
		for x := 0; x < v.Width(); x++ {
			c, _ := v.CellAt(x, y)
			b.WriteByte(c.Glyph())
		}
		rows = append(rows, b.String())
	}
	return rows
}

// ParseRows rebuilds a Grid from glyph rows listed top row first. All rows
// must have the same non-zero length.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrInvalidSize, i, len(row), g.width)
		}
		y := g.height - 1 - i
		for x := 0; x < len(row); x++ {
			c, ok := CellFromGlyph(row[x])
			if !ok {
				return nil, fmt.Errorf("dungeon: unknown glyph %q at (%d, %d)", row[x], x, y)
			}
			g.cells[y*g.width+x] = c
		}
	}
	return g, nil
}
