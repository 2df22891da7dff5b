package dungeon

import "github.com/lawnchairsociety/dungeonbuilder/internal/geometry"

const (
	maintainDecay = 0.95 // Applied to the maintain probability after each straight step
	maintainFloor = 0.1  // Below this the maintain probability is reset to 1
)

// heading tracks the direction-persistence state of a single walk.
type heading struct {
	dir       geometry.Direction
	maintain  float64 // Probability of keeping dir on the next step
	runLength int     // Steps still forced straight after a turn
	minRun    int
}

func newHeading(dir geometry.Direction, passageWidth int) heading {
	return heading{dir: dir, maintain: 1.0, runLength: passageWidth, minRun: passageWidth}
}

// prepare applies the run-length and reset rules before a step.
func (h *heading) prepare() {
	if h.runLength > 0 {
		h.maintain = 1.0
		h.runLength--
		return
	}
	if h.maintain < maintainFloor {
		h.maintain = 1.0
	}
}

// choose picks the next direction from the valid set using roll in [0, 1).
func (h *heading) choose(valid []geometry.Direction, roll float64, rng Rand) geometry.Direction {
	if roll < h.maintain && containsDirection(valid, h.dir) {
		return h.dir
	}
	return valid[rng.Intn(len(valid))]
}

// commit records the chosen direction, decaying or resetting persistence.
func (h *heading) commit(next geometry.Direction) {
	if next != h.dir {
		h.dir = next
		h.maintain = 1.0
		h.runLength = h.minRun
		return
	}
	h.maintain *= maintainDecay
}

func containsDirection(dirs []geometry.Direction, d geometry.Direction) bool {
	for _, candidate := range dirs {
		if candidate == d {
			return true
		}
	}
	return false
}

// carvePassages scans every coordinate row by row and grows a passage from
// each point where a seed still fits.
func (d *Dungeon) carvePassages() {
	radius := d.config.Radius()
	for y := 0; y < d.grid.Height(); y++ {
		for x := 0; x < d.grid.Width(); x++ {
			d.carvePassageFrom(geometry.Pt(x, y), radius)
		}
	}
}

// carvePassageFrom seeds a passage at p and walks until no direction is
// left. A rejected seed is a normal outcome.
func (d *Dungeon) carvePassageFrom(p geometry.Point, radius int) {
	d.stats.SeedsTried++

	hood := geometry.Neighborhood(p, radius)
	if !d.canSeed(hood) {
		return
	}
	d.stats.SeedsAccepted++
	d.grid.fill(hood, PassageFloor)
	d.notify(EventPassageSeeded, hood, PassageFloor)

	dirs := geometry.AllDirections()
	h := newHeading(dirs[d.rng.Intn(len(dirs))], d.config.PassageWidth)

	valid := make([]geometry.Direction, 0, 4)
	for {
		h.prepare()

		valid = valid[:0]
		for _, dir := range dirs {
			if d.canStep(hood, dir) {
				valid = append(valid, dir)
			}
		}
		if len(valid) == 0 {
			return
		}

		next := h.choose(valid, d.rng.Float64(), d.rng)
		h.commit(next)

		hood = hood.Translate(next, 1)
		d.grid.fill(hood, PassageFloor)
		d.stats.WalkSteps++
		d.notify(EventPassageStep, hood, PassageFloor)
	}
}

// isWall reports whether p is an on-grid Wall cell.
func (d *Dungeon) isWall(p geometry.Point) bool {
	c, ok := d.grid.At(p)
	return ok && c == Wall
}

// isClear reports whether p is Wall or off-grid. Lookahead past the grid
// edge counts as satisfying the gap.
func (d *Dungeon) isClear(p geometry.Point) bool {
	c, ok := d.grid.At(p)
	return !ok || c == Wall
}

// canSeed requires the whole neighborhood to be on-grid Wall and the
// MinimumGap rows beyond each edge to be clear.
func (d *Dungeon) canSeed(hood geometry.Region) bool {
	if !hood.All(d.isWall) {
		return false
	}
	for _, dir := range geometry.AllDirections() {
		edge := hood.Edge(dir)
		for gap := 1; gap <= d.config.MinimumGap; gap++ {
			if !edge.Translate(dir, gap).All(d.isClear) {
				return false
			}
		}
	}
	return true
}

// canStep checks a one-cell move of hood toward dir. The slice of new cells
// must be on-grid Wall, and the buffer around it (MinimumGap cells ahead and
// to both orthogonal sides) must be clear.
func (d *Dungeon) canStep(hood geometry.Region, dir geometry.Direction) bool {
	slice := hood.Edge(dir).Translate(dir, 1)
	if !slice.All(d.isWall) {
		return false
	}
	if d.config.MinimumGap == 0 {
		return true
	}

	buffer := slice.Grow(dir, d.config.MinimumGap)
	for _, side := range dir.Orthogonal() {
		buffer = buffer.Grow(side, d.config.MinimumGap)
	}
	return buffer.All(d.isClear)
}
