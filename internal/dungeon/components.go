package dungeon

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/dungeonbuilder/internal/geometry"
)

// Component is a 4-connected group of traversable cells
type Component struct {
	Cells  int
	Rooms  int // Cells that are RoomFloor
	Bounds geometry.Region
}

// Components flood-fills the traversable cells of v and returns the groups,
// largest first. Generation does not guarantee a single component; this is
// a diagnostic.
func Components(v View) []Component {
	visited := mapset.New[geometry.Point]()
	var components []Component

	v.ForEach(func(start geometry.Point, c Cell) {
		if !Traversable(c) || visited.Has(start) {
			return
		}
		components = append(components, floodFill(v, start, &visited))
	})

	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Cells > components[j].Cells
	})
	return components
}

// floodFill collects the component containing start using BFS.
func floodFill(v View, start geometry.Point, visited *mapset.Set[geometry.Point]) Component {
	comp := Component{Bounds: geometry.NewRegion(start, start)}
	queue := []geometry.Point{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		c, _ := v.CellAt(current.X, current.Y)
		comp.Cells++
		if c == RoomFloor {
			comp.Rooms++
		}
		comp.Bounds = extend(comp.Bounds, current)

		for _, dir := range geometry.AllDirections() {
			next := current.Step(dir, 1)
			if visited.Has(next) {
				continue
			}
			nc, ok := v.CellAt(next.X, next.Y)
			if !ok || !Traversable(nc) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}

	return comp
}

func extend(r geometry.Region, p geometry.Point) geometry.Region {
	return geometry.NewRegion(
		geometry.Pt(min(r.LeftX(), p.X), min(r.BottomY(), p.Y)),
		geometry.Pt(max(r.RightX(), p.X), max(r.TopY(), p.Y)),
	)
}
