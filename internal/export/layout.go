// Package export converts excavated dungeons to and from a YAML layout
// document that can be archived, diffed and reloaded.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/geometry"
)

var (
	ErrFingerprintMismatch = errors.New("export: fingerprint does not match rows")
	ErrInvalidLayout       = errors.New("export: invalid layout")
)

// Layout is the serialized form of a dungeon
type Layout struct {
	Width       int             `yaml:"width" json:"width"`
	Height      int             `yaml:"height" json:"height"`
	Seed        int64           `yaml:"seed" json:"seed"`
	Fingerprint string          `yaml:"fingerprint" json:"fingerprint"`
	Config      *dungeon.Config `yaml:"config,omitempty" json:"config,omitempty"`
	Stats       *dungeon.Stats  `yaml:"stats,omitempty" json:"stats,omitempty"`
	Rooms       []Room          `yaml:"rooms" json:"rooms"`
	Rows        []string        `yaml:"rows" json:"rows"` // Top row first
}

// Room is an accepted room rectangle; X and Y are its bottom-left corner
type Room struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Region returns the room as a geometry.Region.
func (r Room) Region() geometry.Region {
	return geometry.RegionOfSize(geometry.Pt(r.X, r.Y), r.Width, r.Height)
}

// FromDungeon captures an excavated dungeon together with the seed that
// produced it.
func FromDungeon(d *dungeon.Dungeon, seed int64) *Layout {
	cfg := d.Config()
	stats := d.Stats()

	layout := &Layout{
		Width:       d.Width(),
		Height:      d.Height(),
		Seed:        seed,
		Fingerprint: dungeon.Fingerprint(d),
		Config:      &cfg,
		Stats:       &stats,
		Rooms:       make([]Room, 0, len(d.Rooms())),
		Rows:        dungeon.Rows(d),
	}
	for _, r := range d.Rooms() {
		layout.Rooms = append(layout.Rooms, Room{
			X:      r.LeftX(),
			Y:      r.BottomY(),
			Width:  r.Width(),
			Height: r.Height(),
		})
	}
	return layout
}

// Grid rebuilds the cell grid from Rows and checks it against Fingerprint.
func (l *Layout) Grid() (*dungeon.Grid, error) {
	if len(l.Rows) != l.Height {
		return nil, fmt.Errorf("%w: %d rows for height %d", ErrInvalidLayout, len(l.Rows), l.Height)
	}
	g, err := dungeon.ParseRows(l.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if g.Width() != l.Width {
		return nil, fmt.Errorf("%w: row width %d for width %d", ErrInvalidLayout, g.Width(), l.Width)
	}
	if l.Fingerprint != "" && dungeon.Fingerprint(g) != l.Fingerprint {
		return nil, ErrFingerprintMismatch
	}
	return g, nil
}

// Encode marshals the layout to YAML.
func Encode(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(l); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML layout and validates its rows.
func Decode(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if _, err := l.Grid(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteYAML writes the layout to path with a short header comment.
func WriteYAML(path string, l *Layout) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Dungeon layout %dx%d, seed %d\n", l.Width, l.Height, l.Seed)
	fmt.Fprintf(f, "# Rooms: %d\n\n", len(l.Rooms))
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write layout: %w", err)
	}
	return nil
}

// ReadYAML loads and validates a layout written by WriteYAML.
func ReadYAML(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	return Decode(data)
}
