package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/npcbrain/internal/model"
)

// Region is a single world cell (2048×2048 game units).
// Readers get an immutable snapshot that is rebuilt lazily after membership changes.
type Region struct {
	units sync.Map // map[uint32]*model.Unit (objectID → unit)

	snapshotCache atomic.Value // []*model.Unit (immutable after rebuild)
	snapshotDirty atomic.Bool
}

// NewRegion creates an empty region.
func NewRegion() *Region {
	r := &Region{}
	r.snapshotDirty.Store(true)
	return r
}

// Add puts a unit into this region.
func (r *Region) Add(u *model.Unit) {
	r.units.Store(u.ObjectID(), u)
	r.snapshotDirty.Store(true)
}

// Remove drops a unit from this region.
func (r *Region) Remove(objectID uint32) {
	if _, loaded := r.units.LoadAndDelete(objectID); !loaded {
		return
	}
	r.snapshotDirty.Store(true)
}

// Snapshot returns the cached member list. Do not modify the returned slice.
func (r *Region) Snapshot() []*model.Unit {
	if !r.snapshotDirty.Load() {
		if cache := r.snapshotCache.Load(); cache != nil {
			return cache.([]*model.Unit)
		}
	}
	return r.rebuildSnapshot()
}

// Clear removes all units. Used for test isolation.
func (r *Region) Clear() {
	r.units.Range(func(key, _ any) bool {
		r.units.Delete(key)
		return true
	})
	r.snapshotDirty.Store(true)
}

func (r *Region) rebuildSnapshot() []*model.Unit {
	units := make([]*model.Unit, 0, 16)
	r.units.Range(func(_, value any) bool {
		units = append(units, value.(*model.Unit))
		return true
	})

	r.snapshotCache.Store(units)
	r.snapshotDirty.Store(false)
	return units
}
