// Package dungeon excavates grid dungeons: rectangular rooms placed at
// random, then winding passages grown from every unclaimed wall pocket.
package dungeon

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeonbuilder/internal/geometry"
)

// Rand is the random source consumed by generation. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source; equal seeds give identical dungeons.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// randRange returns a value in [lo, hi].
func randRange(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// EventKind identifies which mutation an Event reports
type EventKind int

const (
	EventRoomFilled    EventKind = iota // A room was accepted and filled
	EventPassageSeeded                  // A passage neighborhood was seeded
	EventPassageStep                    // A walk advanced one cell
)

// String returns the string representation of an EventKind
func (k EventKind) String() string {
	switch k {
	case EventRoomFilled:
		return "room"
	case EventPassageSeeded:
		return "seed"
	case EventPassageStep:
		return "step"
	default:
		return "unknown"
	}
}

// Event describes one grid mutation. View is the live grid; observers that
// keep frames must copy what they need before returning.
type Event struct {
	Kind   EventKind
	Region geometry.Region
	Cell   Cell
	View   View
}

// Observer is called after every mutation. It cannot influence generation.
type Observer func(Event)

// Option configures a Dungeon
type Option func(*Dungeon)

// WithObserver registers an observer. Multiple observers run in order.
func WithObserver(o Observer) Option {
	return func(d *Dungeon) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// Stats summarises one excavation
type Stats struct {
	RoomsPlaced   int `yaml:"rooms_placed" json:"rooms_placed"`
	RoomAttempts  int `yaml:"room_attempts" json:"room_attempts"`
	SeedsTried    int `yaml:"seeds_tried" json:"seeds_tried"`
	SeedsAccepted int `yaml:"seeds_accepted" json:"seeds_accepted"`
	WalkSteps     int `yaml:"walk_steps" json:"walk_steps"`
	RoomCells     int `yaml:"room_cells" json:"room_cells"`
	PassageCells  int `yaml:"passage_cells" json:"passage_cells"`
	WallCells     int `yaml:"wall_cells" json:"wall_cells"`
}

// FloorCells returns the number of traversable cells.
func (s Stats) FloorCells() int {
	return s.RoomCells + s.PassageCells
}

// Dungeon owns a grid and the parameters used to excavate it
type Dungeon struct {
	config        Config
	grid          *Grid
	rng           Rand
	observers     []Observer
	maxRoomWidth  int
	maxRoomHeight int
	rooms         []geometry.Region
	stats         Stats
	excavated     bool
}

// New validates config, picks the grid size and room ceilings from rng and
// returns an unexcavated, all-Wall dungeon. Nothing is built on error.
func New(config Config, rng Rand, opts ...Option) (*Dungeon, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	width := randRange(rng, max(int(config.Modifier*float64(config.MaxWidth)), config.MinWidth), config.MaxWidth)
	height := randRange(rng, max(int(config.Modifier*float64(config.MaxHeight)), config.MinHeight), config.MaxHeight)

	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	d := &Dungeon{
		config: config,
		grid:   grid,
		rng:    rng,
	}
	d.maxRoomWidth = randRange(rng, config.MinRoomWidth, max(config.MinRoomWidth, int(config.Modifier*float64(width/5))))
	d.maxRoomHeight = randRange(rng, config.MinRoomHeight, max(config.MinRoomHeight, int(config.Modifier*float64(height/5))))

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Generate builds and excavates a dungeon in one call.
func Generate(config Config, rng Rand, opts ...Option) (*Dungeon, error) {
	d, err := New(config, rng, opts...)
	if err != nil {
		return nil, err
	}
	d.Excavate()
	return d, nil
}

// Excavate places rooms and then carves passages from every grid
// coordinate. Calling it again is a no-op.
func (d *Dungeon) Excavate() {
	if d.excavated {
		return
	}
	d.excavated = true

	d.placeRooms()
	d.carvePassages()

	d.stats.RoomCells = d.grid.Count(RoomFloor)
	d.stats.PassageCells = d.grid.Count(PassageFloor)
	d.stats.WallCells = d.grid.Count(Wall)
}

func (d *Dungeon) notify(kind EventKind, r geometry.Region, c Cell) {
	if len(d.observers) == 0 {
		return
	}
	ev := Event{Kind: kind, Region: r, Cell: c, View: d.grid}
	for _, o := range d.observers {
		o(ev)
	}
}

// Config returns the configuration the dungeon was built with.
func (d *Dungeon) Config() Config { return d.config }

// Grid returns the underlying grid. Treat it as read-only.
func (d *Dungeon) Grid() *Grid { return d.grid }

// Width returns the grid width.
func (d *Dungeon) Width() int { return d.grid.Width() }

// Height returns the grid height.
func (d *Dungeon) Height() int { return d.grid.Height() }

// CellAt returns the cell at (x, y), or false if off-grid.
func (d *Dungeon) CellAt(x, y int) (Cell, bool) { return d.grid.CellAt(x, y) }

// ForEach visits every cell in row-major order.
func (d *Dungeon) ForEach(fn func(geometry.Point, Cell)) { d.grid.ForEach(fn) }

// MaxRoomSize returns the room ceilings drawn at construction.
func (d *Dungeon) MaxRoomSize() (width, height int) {
	return d.maxRoomWidth, d.maxRoomHeight
}

// Rooms returns the accepted rooms in placement order.
func (d *Dungeon) Rooms() []geometry.Region {
	rooms := make([]geometry.Region, len(d.rooms))
	copy(rooms, d.rooms)
	return rooms
}

// Stats returns counters gathered during excavation.
func (d *Dungeon) Stats() Stats { return d.stats }
