package dungeon

import "github.com/lawnchairsociety/dungeonbuilder/internal/geometry"

// placeRooms tries up to RoomAttempts candidates and keeps those whose
// corners do not fall inside an already accepted room.
func (d *Dungeon) placeRooms() {
	for attempt := 0; attempt < d.config.RoomAttempts; attempt++ {
		if len(d.rooms) >= d.config.MaxRooms {
			break
		}
		d.stats.RoomAttempts++

		room, ok := d.generateRoom()
		if !ok {
			continue
		}
		if overlapsAny(room, d.rooms) {
			continue
		}

		d.rooms = append(d.rooms, room)
		d.grid.fill(room, RoomFloor)
		d.stats.RoomsPlaced++
		d.notify(EventRoomFilled, room, RoomFloor)
	}
}

// generateRoom draws a candidate room that fits inside the grid. It
// returns false when the drawn size is larger than the grid.
func (d *Dungeon) generateRoom() (geometry.Region, bool) {
	width := randRange(d.rng, d.config.MinRoomWidth, d.maxRoomWidth)
	height := randRange(d.rng, d.config.MinRoomHeight, d.maxRoomHeight)
	if width > d.grid.Width() || height > d.grid.Height() {
		return geometry.Region{}, false
	}

	start := geometry.Pt(
		randRange(d.rng, 0, d.grid.Width()-width),
		randRange(d.rng, 0, d.grid.Height()-height),
	)
	return geometry.RegionOfSize(start, width, height), true
}

func overlapsAny(candidate geometry.Region, rooms []geometry.Region) bool {
	for _, room := range rooms {
		if candidate.Overlaps(room) {
			return true
		}
	}
	return false
}
