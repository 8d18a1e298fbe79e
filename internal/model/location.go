package model

import "math"

// FootprintDiag converts a footprint width into its half-diagonal padding.
const FootprintDiag = 0.70710678

// Location is a point in the game world. Value type, passed by copy.
type Location struct {
	X       int32
	Y       int32
	Z       int32
	Heading uint16 // 0-65535
}

// NewLocation creates a Location with the given coordinates.
func NewLocation(x, y, z int32, heading uint16) Location {
	return Location{X: x, Y: y, Z: z, Heading: heading}
}

// WithCoordinates returns a copy with updated coordinates (immutable pattern).
func (l Location) WithCoordinates(x, y, z int32) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// Distance2D returns planar distance, ignoring Z.
// Aggro and chase checks are planar.
func (l Location) Distance2D(other Location) float64 {
	dx := float64(l.X) - float64(other.X)
	dy := float64(l.Y) - float64(other.Y)
	return math.Hypot(dx, dy)
}

// StepToward returns the point reached after moving at most step units
// from l toward dest on the XY plane. Z snaps to dest when dest is reached.
func (l Location) StepToward(dest Location, step float64) Location {
	dist := l.Distance2D(dest)
	if dist <= step || dist == 0 {
		return l.WithCoordinates(dest.X, dest.Y, dest.Z)
	}
	ratio := step / dist
	x := float64(l.X) + (float64(dest.X)-float64(l.X))*ratio
	y := float64(l.Y) + (float64(dest.Y)-float64(l.Y))*ratio
	return l.WithCoordinates(int32(math.Round(x)), int32(math.Round(y)), l.Z)
}

// Box is an axis-aligned planar region. Z is unbounded.
type Box struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// BoxAround returns the square region of half-size radius centered on loc.
func BoxAround(loc Location, radius float64) Box {
	r := int32(math.Ceil(radius))
	return Box{
		MinX: loc.X - r,
		MinY: loc.Y - r,
		MaxX: loc.X + r,
		MaxY: loc.Y + r,
	}
}

// Grow returns the box extended by pad on every side.
func (b Box) Grow(pad float64) Box {
	p := int32(math.Ceil(pad))
	return Box{
		MinX: b.MinX - p,
		MinY: b.MinY - p,
		MaxX: b.MaxX + p,
		MaxY: b.MaxY + p,
	}
}

// Contains reports whether loc lies inside the box (inclusive).
func (b Box) Contains(loc Location) bool {
	return loc.X >= b.MinX && loc.X <= b.MaxX && loc.Y >= b.MinY && loc.Y <= b.MaxY
}
