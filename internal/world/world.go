package world

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/npcbrain/internal/model"
)

// World is the live-unit registry and spatial index.
// Regions are allocated on first use.
type World struct {
	mu      sync.Mutex // guards region allocation
	regions []*Region  // flat [RegionsX*RegionsY]

	units     sync.Map // map[uint32]*model.Unit (objectID → unit)
	unitCount atomic.Int32

	// maxPadding is the widest footprint padding ever registered, in whole
	// game units. Queries scan this far beyond the box edge.
	maxPadding atomic.Int32
}

// New creates an empty world.
func New() *World {
	return &World{
		regions: make([]*Region, RegionsX*RegionsY),
	}
}

// region returns the region at index, allocating it when create is set.
func (w *World) region(rx, ry int32, create bool) *Region {
	if !IsValidRegionIndex(rx, ry) {
		return nil
	}
	idx := int(rx)*RegionsY + int(ry)

	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.regions[idx]
	if r == nil && create {
		r = NewRegion()
		w.regions[idx] = r
	}
	return r
}

// GetRegion returns region at world coordinates (x, y), nil if out of bounds
// or not yet populated.
func (w *World) GetRegion(x, y int32) *Region {
	rx, ry := CoordToRegionIndex(x, y)
	return w.region(rx, ry, false)
}

// AddUnit registers a unit and places it into its region.
func (w *World) AddUnit(u *model.Unit) error {
	loc := u.Location()
	rx, ry := CoordToRegionIndex(loc.X, loc.Y)
	r := w.region(rx, ry, true)
	if r == nil {
		return fmt.Errorf("invalid coordinates for unit %d: (%d, %d)", u.ObjectID(), loc.X, loc.Y)
	}

	if _, loaded := w.units.LoadOrStore(u.ObjectID(), u); loaded {
		return fmt.Errorf("unit %d already in world", u.ObjectID())
	}
	w.unitCount.Add(1)
	w.growPadding(u.FootprintPadding())
	r.Add(u)
	return nil
}

func (w *World) growPadding(pad float64) {
	p := int32(math.Ceil(pad))
	for {
		cur := w.maxPadding.Load()
		if p <= cur || w.maxPadding.CompareAndSwap(cur, p) {
			return
		}
	}
}

// RemoveUnit unregisters a unit and forgets it from every remaining
// unit's hate table. Unknown IDs are ignored.
func (w *World) RemoveUnit(objectID uint32) {
	value, ok := w.units.LoadAndDelete(objectID)
	if !ok {
		return
	}
	w.unitCount.Add(-1)

	loc := value.(*model.Unit).Location()
	if r := w.GetRegion(loc.X, loc.Y); r != nil {
		r.Remove(objectID)
	}

	w.units.Range(func(_, v any) bool {
		v.(*model.Unit).AggroList().Remove(objectID)
		return true
	})
}

// Unit resolves a stable identity to a live unit handle.
func (w *World) Unit(objectID uint32) (*model.Unit, bool) {
	if objectID == model.NoTarget {
		return nil, false
	}
	value, ok := w.units.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Unit), true
}

// MoveUnit sets the unit location and migrates it between regions when needed.
// Destinations outside the grid are ignored.
func (w *World) MoveUnit(u *model.Unit, loc model.Location) {
	oldLoc := u.Location()
	oldRX, oldRY := CoordToRegionIndex(oldLoc.X, oldLoc.Y)
	newRX, newRY := CoordToRegionIndex(loc.X, loc.Y)

	if oldRX == newRX && oldRY == newRY {
		u.SetLocation(loc)
		return
	}

	dst := w.region(newRX, newRY, true)
	if dst == nil {
		return
	}
	u.SetLocation(loc)

	if _, registered := w.units.Load(u.ObjectID()); !registered {
		return
	}
	if src := w.region(oldRX, oldRY, false); src != nil {
		src.Remove(u.ObjectID())
	}
	dst.Add(u)
}

// UnitsInRegion appends to dst the IDs of units whose footprint overlaps
// box and that pass filter, and returns the extended slice. IDs come out in
// ascending order, so the result is stable for a given world state.
func (w *World) UnitsInRegion(dst []uint32, box model.Box, filter model.RegionFilter) []uint32 {
	// A wide unit centered in a neighbouring region can still reach in.
	minRX, minRY, maxRX, maxRY, ok := BoxToRegionRange(box.Grow(float64(w.maxPadding.Load())))
	if !ok {
		return dst
	}

	start := len(dst)
	for rx := minRX; rx <= maxRX; rx++ {
		for ry := minRY; ry <= maxRY; ry++ {
			r := w.region(rx, ry, false)
			if r == nil {
				continue
			}
			for _, u := range r.Snapshot() {
				if !box.Grow(u.FootprintPadding()).Contains(u.Location()) || !filter.Matches(u) {
					continue
				}
				dst = append(dst, u.ObjectID())
			}
		}
	}

	slices.Sort(dst[start:])
	return dst
}

// UnitCount returns number of registered units.
func (w *World) UnitCount() int {
	return int(w.unitCount.Load())
}

// Reset removes every unit. Used for test isolation.
func (w *World) Reset() {
	w.units.Range(func(key, _ any) bool {
		w.units.Delete(key)
		return true
	})
	w.unitCount.Store(0)
	w.maxPadding.Store(0)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.regions {
		if r != nil {
			r.Clear()
		}
	}
}
