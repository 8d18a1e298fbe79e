package model

import (
	"sync"
	"sync/atomic"
)

// Spawn is a spawn point for units of one template.
type Spawn struct {
	spawnID      int64
	templateID   int32
	location     Location
	maximumCount int32
	doRespawn    bool
	wanderRadius float64

	mu           sync.RWMutex
	currentCount atomic.Int32
	units        []*Unit
}

// NewSpawn creates a new spawn point.
func NewSpawn(
	spawnID int64,
	templateID int32,
	loc Location,
	maximumCount int32,
	doRespawn bool,
	wanderRadius float64,
) *Spawn {
	return &Spawn{
		spawnID:      spawnID,
		templateID:   templateID,
		location:     loc,
		maximumCount: maximumCount,
		doRespawn:    doRespawn,
		wanderRadius: wanderRadius,
		units:        make([]*Unit, 0, maximumCount),
	}
}

func (s *Spawn) SpawnID() int64 {
	return s.spawnID
}

func (s *Spawn) TemplateID() int32 {
	return s.templateID
}

// Location returns the spawn point; wandering units use it as home.
func (s *Spawn) Location() Location {
	return s.location
}

func (s *Spawn) MaximumCount() int32 {
	return s.maximumCount
}

func (s *Spawn) DoRespawn() bool {
	return s.doRespawn
}

// WanderRadius returns the per-spawn wander radius, 0 means "use config default".
func (s *Spawn) WanderRadius() float64 {
	return s.wanderRadius
}

// CurrentCount returns current spawned count (atomic read)
func (s *Spawn) CurrentCount() int32 {
	return s.currentCount.Load()
}

// AddUnit registers a spawned unit and bumps the count.
func (s *Spawn) AddUnit(u *Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = append(s.units, u)
	s.currentCount.Add(1)
}

// RemoveUnit drops a unit from the spawn. Unknown units are ignored.
func (s *Spawn) RemoveUnit(u *Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.units {
		if cur == u {
			s.units = append(s.units[:i], s.units[i+1:]...)
			s.currentCount.Add(-1)
			return
		}
	}
}

// Units returns a copy of the spawned units list.
func (s *Spawn) Units() []*Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := make([]*Unit, len(s.units))
	copy(units, s.units)
	return units
}
