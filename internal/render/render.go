// Package render draws dungeon grids as text, PNG images and GIF
// animations of the excavation.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
)

const (
	DefaultScale    = 4
	DefaultStride   = 1
	DefaultGIFDelay = 5 // Centiseconds per frame
)

// Palette maps cell values to colors; the index of each entry is the Cell.
var Palette = color.Palette{
	dungeon.Wall:         color.RGBA{0x00, 0x00, 0x00, 0xff},
	dungeon.RoomFloor:    color.RGBA{0xff, 0xff, 0xff, 0xff},
	dungeon.PassageFloor: color.RGBA{0xff, 0x00, 0x00, 0xff},
}

// Text renders v as glyph rows, top row first, one line per row.
func Text(v dungeon.View) string {
	var b strings.Builder
	b.Grow((v.Width() + 1) * v.Height())
	for _, row := range dungeon.Rows(v) {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// Image draws v with each cell as a scale x scale block. The top grid row
// is the top of the image.
func Image(v dungeon.View, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, v.Width()*scale, v.Height()*scale), Palette)

	for y := 0; y < v.Height(); y++ {
		top := (v.Height() - 1 - y) * scale
		for x := 0; x < v.Width(); x++ {
			c, _ := v.CellAt(x, y)
			if c == dungeon.Wall {
				continue // Zero index is already Wall
			}
			for dy := 0; dy < scale; dy++ {
				offset := img.PixOffset(x*scale, top+dy)
				row := img.Pix[offset : offset+scale]
				for i := range row {
					row[i] = uint8(c)
				}
			}
		}
	}
	return img
}

// WritePNG encodes v as a PNG.
func WritePNG(w io.Writer, v dungeon.View, scale int) error {
	if err := png.Encode(w, Image(v, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
