package viewer

import (
	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
)

// Frame kinds sent over the excavation stream besides the event kinds
// ("room", "seed", "step").
const (
	FrameInit  = "init"
	FrameDone  = "done"
	FrameError = "error"
)

// Frame is one JSON message on the excavation stream. Coordinates are the
// inclusive corners of the mutated region.
type Frame struct {
	Kind string `json:"kind"`
	X0   int    `json:"x0"`
	Y0   int    `json:"y0"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	Cell string `json:"cell,omitempty"`

	// init
	Width  int   `json:"width,omitempty"`
	Height int   `json:"height,omitempty"`
	Seed   int64 `json:"seed,omitempty"`

	// done
	Fingerprint string         `json:"fingerprint,omitempty"`
	Rooms       int            `json:"rooms,omitempty"`
	Components  int            `json:"components,omitempty"`
	Stats       *dungeon.Stats `json:"stats,omitempty"`
	ArchiveID   int64          `json:"archive_id,omitempty"`

	Error string `json:"error,omitempty"`
}

func eventFrame(ev dungeon.Event) Frame {
	return Frame{
		Kind: ev.Kind.String(),
		X0:   ev.Region.LeftX(),
		Y0:   ev.Region.BottomY(),
		X1:   ev.Region.RightX(),
		Y1:   ev.Region.TopY(),
		Cell: ev.Cell.String(),
	}
}
