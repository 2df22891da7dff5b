package render

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
)

// ErrNoFrames is returned by WriteGIF before any frame was captured.
var ErrNoFrames = errors.New("render: no frames recorded")

// Recorder collects animation frames from excavation events. Register
// Observe with dungeon.WithObserver and call Flush once excavation ends.
type Recorder struct {
	Scale  int
	Stride int // Capture every Stride-th event
	Delay  int // Centiseconds per frame

	frames  []*image.Paletted
	events  int
	pending bool
}

// NewRecorder returns a Recorder, substituting defaults for values below one.
func NewRecorder(scale, stride, delay int) *Recorder {
	if scale < 1 {
		scale = DefaultScale
	}
	if stride < 1 {
		stride = DefaultStride
	}
	if delay < 1 {
		delay = DefaultGIFDelay
	}
	return &Recorder{Scale: scale, Stride: stride, Delay: delay}
}

// Observe is a dungeon.Observer.
func (r *Recorder) Observe(ev dungeon.Event) {
	r.events++
	if r.events%r.Stride != 0 {
		r.pending = true
		return
	}
	r.frames = append(r.frames, Image(ev.View, r.Scale))
	r.pending = false
}

// Flush captures v if events arrived since the last frame, or if nothing
// has been captured yet.
func (r *Recorder) Flush(v dungeon.View) {
	if r.pending || len(r.frames) == 0 {
		r.frames = append(r.frames, Image(v, r.Scale))
		r.pending = false
	}
}

// Frames returns the number of captured frames.
func (r *Recorder) Frames() int {
	return len(r.frames)
}

// Events returns the number of events observed.
func (r *Recorder) Events() int {
	return r.events
}

// WriteGIF encodes the captured frames as a looping animation.
func (r *Recorder) WriteGIF(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}

	anim := &gif.GIF{
		Image:     r.frames,
		Delay:     make([]int, len(r.frames)),
		LoopCount: 0,
	}
	for i := range anim.Delay {
		anim.Delay[i] = r.Delay
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode GIF: %w", err)
	}
	return nil
}
