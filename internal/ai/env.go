package ai

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/udisondev/npcbrain/internal/config"
	"github.com/udisondev/npcbrain/internal/model"
)

// World resolves unit identities and answers spatial queries.
// Implemented by *world.World.
type World interface {
	// Unit resolves a stable identity to a live unit. ok is false for
	// unknown or removed units.
	Unit(objectID uint32) (*model.Unit, bool)

	// UnitsInRegion appends the IDs of units inside box that pass filter.
	// Order must be stable within a tick.
	UnitsInRegion(dst []uint32, box model.Box, filter model.RegionFilter) []uint32
}

// TargetPolicy decides whether candidate is a legal target for self.
type TargetPolicy interface {
	ShouldTarget(self, candidate *model.Unit) bool
}

// ThreatScorer ranks candidates; higher is more threatening.
// current is true when candidate is the target being pursued right now.
type ThreatScorer interface {
	Threat(self, candidate *model.Unit, current bool) float64
}

// HelpCaller broadcasts a help request around caller.
type HelpCaller interface {
	CallForHelp(caller *model.Unit, radius float64, attacker *model.Unit)
}

// BrainLookup finds the brain driving a unit. Implemented by *TickManager.
type BrainLookup interface {
	Brain(objectID uint32) (*Brain, bool)
}

// Clock returns game time in milliseconds.
type Clock interface {
	Now() int64
}

// MoveFunc integrates a unit's movement to loc.
// Injected so the world can keep its spatial index current.
type MoveFunc func(unit *model.Unit, loc model.Location)

// StrikeFunc resolves one swing of attacker at target.
// Injected to keep damage math outside the behavior engine.
type StrikeFunc func(attacker, target *model.Unit)

// Env bundles the collaborators every behavior of a brain reads.
// One Env is shared by all brains driven from the same tick loop.
type Env struct {
	World  World
	Policy TargetPolicy
	Threat ThreatScorer
	Help   HelpCaller
	Brains BrainLookup
	Clock  Clock
	Move   MoveFunc
	Strike StrikeFunc
	Rand   *rand.Rand
	Config config.AI

	evaluator *ThreatEvaluator
}

// Evaluator returns the shared threat evaluator bound to this Env.
func (e *Env) Evaluator() *ThreatEvaluator {
	if e.evaluator == nil {
		e.evaluator = NewThreatEvaluator(e.World, e.Policy, e.Threat)
	}
	return e.evaluator
}

// Now returns game time, 0 when no clock is wired.
func (e *Env) Now() int64 {
	if e.Clock == nil {
		return 0
	}
	return e.Clock.Now()
}

func (e *Env) randFloat() float64 {
	if e.Rand != nil {
		return e.Rand.Float64()
	}
	return rand.Float64()
}

// GameClock is the simulation clock advanced once per tick.
type GameClock struct {
	now atomic.Int64
}

// NewGameClock creates a clock starting at startMs.
func NewGameClock(startMs int64) *GameClock {
	c := &GameClock{}
	c.now.Store(startMs)
	return c
}

// Now returns current game time in milliseconds.
func (c *GameClock) Now() int64 {
	return c.now.Load()
}

// Advance moves the clock forward by d.
func (c *GameClock) Advance(d time.Duration) int64 {
	return c.now.Add(d.Milliseconds())
}
