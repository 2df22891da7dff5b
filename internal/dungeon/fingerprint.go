package dungeon

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/dungeonbuilder/internal/geometry"
)

// Fingerprint returns a hex BLAKE2b-256 digest of the grid size and every
// cell in row-major order. Equal layouts always share a fingerprint.
func Fingerprint(v View) string {
	buf := make([]byte, 16, 16+v.Width()*v.Height())
	binary.BigEndian.PutUint64(buf[0:8], uint64(v.Width()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(v.Height()))
	v.ForEach(func(_ geometry.Point, c Cell) {
		buf = append(buf, byte(c))
	})
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
