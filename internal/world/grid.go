package world

import "github.com/udisondev/npcbrain/internal/model"

// The world is a fixed rectangle cut into square regions of RegionSize
// units. Region indices are non-negative; Offset shifts the origin.
const (
	ShiftBy    = 11
	RegionSize = 1 << ShiftBy

	WorldXMin = -131072
	WorldYMin = -262144
	WorldXMax = 196608
	WorldYMax = 229376

	OffsetX = -WorldXMin >> ShiftBy // 64
	OffsetY = -WorldYMin >> ShiftBy // 128

	RegionsX = (WorldXMax - WorldXMin) >> ShiftBy    // 160
	RegionsY = (WorldYMax - WorldYMin)>>ShiftBy + 1 // 241, one spare row at the top edge
)

// CoordToRegionIndex maps a world coordinate to its region index. The
// arithmetic shift floors, so negative coordinates land in the right cell.
func CoordToRegionIndex(x, y int32) (rx, ry int32) {
	return (x >> ShiftBy) + OffsetX, (y >> ShiftBy) + OffsetY
}

// IsValidRegionIndex reports whether (rx, ry) lies on the grid.
func IsValidRegionIndex(rx, ry int32) bool {
	return rx >= 0 && rx < RegionsX && ry >= 0 && ry < RegionsY
}

// BoxToRegionRange returns the inclusive region index rectangle covering box,
// clamped to the grid. ok is false when the box lies entirely outside.
func BoxToRegionRange(box model.Box) (minRX, minRY, maxRX, maxRY int32, ok bool) {
	minRX, minRY = CoordToRegionIndex(box.MinX, box.MinY)
	maxRX, maxRY = CoordToRegionIndex(box.MaxX, box.MaxY)

	minRX = max(minRX, 0)
	minRY = max(minRY, 0)
	maxRX = min(maxRX, RegionsX-1)
	maxRY = min(maxRY, RegionsY-1)

	return minRX, minRY, maxRX, maxRY, minRX <= maxRX && minRY <= maxRY
}
