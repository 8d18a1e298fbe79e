package ai

import (
	"math"
	"time"

	"github.com/udisondev/npcbrain/internal/model"
)

// NeverChecked is the "never" value of an aggro throttle timestamp.
const NeverChecked int64 = -1

// throttled reports whether an aggro check at now falls inside the window
// opened by the previous check at last.
func throttled(last, now int64, window time.Duration) bool {
	return last != NeverChecked && last+window.Milliseconds() >= now
}

// edgeDistance is the planar distance from center to the edge of u's footprint.
func edgeDistance(center model.Location, u *model.Unit) float64 {
	return center.Distance2D(u.Location()) - u.FootprintPadding()
}

// SearchRadius returns the aggro scan radius of self: its aggro range padded
// by the footprint of the scan anchor (owner when present, else self).
func SearchRadius(self, owner *model.Unit) float64 {
	anchor := self
	if owner != nil {
		anchor = owner
	}
	return self.AggroRange() + anchor.FootprintPadding()
}

// ThreatEvaluator selects the most threatening admissible target around a unit.
// Not safe for concurrent use: it reuses a scratch buffer between scans.
type ThreatEvaluator struct {
	world  World
	policy TargetPolicy
	threat ThreatScorer

	scratch []uint32
}

// NewThreatEvaluator creates an evaluator over the given collaborators.
// A nil policy admits every targetable unit; a nil scorer ranks all equally.
func NewThreatEvaluator(world World, policy TargetPolicy, threat ThreatScorer) *ThreatEvaluator {
	return &ThreatEvaluator{
		world:   world,
		policy:  policy,
		threat:  threat,
		scratch: make([]uint32, 0, 64),
	}
}

// SelectTarget returns the unit self should engage, or NoTarget.
//
// A unit with an owner that has a live target inherits it without scanning.
// Otherwise units in the square region around the anchor are scored and the
// strictly highest in-range score wins; on ties the first in scan order
// (lowest object ID) is kept. current marks the target pursued right now.
func (e *ThreatEvaluator) SelectTarget(self *model.Unit, current uint32) uint32 {
	var owner *model.Unit
	if ownerID := self.OwnerID(); ownerID != model.NoTarget {
		if o, ok := e.world.Unit(ownerID); ok {
			owner = o
		}
	}

	if owner != nil {
		if t, ok := e.world.Unit(owner.TargetID()); ok {
			return t.ObjectID()
		}
	}

	center := self.Location()
	if owner != nil {
		center = owner.Location()
	}
	radius := SearchRadius(self, owner)

	e.scratch = e.world.UnitsInRegion(e.scratch[:0], model.BoxAround(center, radius), model.RegionActiveUnit)

	best := -math.MaxFloat64
	bestID := model.NoTarget
	for _, id := range e.scratch {
		if id == self.ObjectID() {
			continue
		}
		candidate, ok := e.world.Unit(id)
		if !ok || !candidate.IsTargetable() {
			continue
		}
		if e.policy != nil && !e.policy.ShouldTarget(self, candidate) {
			continue
		}

		var score float64
		if e.threat != nil {
			score = e.threat.Threat(self, candidate, id == current)
		}
		if score > best && edgeDistance(center, candidate) <= radius {
			best = score
			bestID = id
		}
	}

	return bestID
}
