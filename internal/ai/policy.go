package ai

import (
	"log/slog"

	"github.com/udisondev/npcbrain/internal/model"
)

// FactionPolicy admits living, targetable units of a different faction.
// A unit never targets its owner or its own pets.
type FactionPolicy struct{}

// ShouldTarget implements TargetPolicy.
func (FactionPolicy) ShouldTarget(self, candidate *model.Unit) bool {
	if candidate == nil || candidate.ObjectID() == self.ObjectID() {
		return false
	}
	if candidate.IsDead() || !candidate.IsTargetable() {
		return false
	}
	if self.OwnerID() == candidate.ObjectID() || candidate.OwnerID() == self.ObjectID() {
		return false
	}
	return candidate.Faction() != self.Faction()
}

// HateThreat scores candidates by accumulated hate, minus a distance penalty,
// plus a stickiness bonus for the target already being pursued.
type HateThreat struct {
	ProximityWeight    float64
	CurrentTargetBonus float64
}

// DefaultHateThreat returns the scorer wired by the server.
func DefaultHateThreat() HateThreat {
	return HateThreat{
		ProximityWeight:    0.01,
		CurrentTargetBonus: 10,
	}
}

// Threat implements ThreatScorer.
func (h HateThreat) Threat(self, candidate *model.Unit, current bool) float64 {
	score := float64(self.AggroList().Hate(candidate.ObjectID()))
	score -= h.ProximityWeight * self.Location().Distance2D(candidate.Location())
	if current {
		score += h.CurrentTargetBonus
	}
	return score
}

// FactionHelp answers a call for help by alerting living allies of the
// caller's faction around it.
type FactionHelp struct {
	World  World
	Brains BrainLookup

	scratch []uint32
}

// NewFactionHelp creates a help broadcaster over world and brains.
func NewFactionHelp(world World, brains BrainLookup) *FactionHelp {
	return &FactionHelp{
		World:   world,
		Brains:  brains,
		scratch: make([]uint32, 0, 32),
	}
}

// CallForHelp implements HelpCaller. Each ally gets a point of hate on
// attacker and, when it has a brain, an assist notification.
func (f *FactionHelp) CallForHelp(caller *model.Unit, radius float64, attacker *model.Unit) {
	if caller == nil || attacker == nil || radius <= 0 {
		return
	}
	center := caller.Location()
	f.scratch = f.World.UnitsInRegion(f.scratch[:0], model.BoxAround(center, radius), model.RegionActiveUnit)

	helped := 0
	for _, id := range f.scratch {
		if id == caller.ObjectID() || id == attacker.ObjectID() {
			continue
		}
		ally, ok := f.World.Unit(id)
		if !ok || ally.Faction() != caller.Faction() {
			continue
		}
		if center.Distance2D(ally.Location()) > radius {
			continue
		}

		ally.AggroList().AddHate(attacker.ObjectID(), 1)
		if f.Brains != nil {
			if brain, found := f.Brains.Brain(id); found {
				brain.NotifyAssist(caller, attacker)
			}
		}
		helped++
	}

	if helped > 0 && IsDebugEnabled() {
		slog.Debug("call for help",
			"objectID", caller.ObjectID(),
			"attackerID", attacker.ObjectID(),
			"allies", helped)
	}
}

// BasicStrike applies one swing of attacker's attack power to target and
// records the damage on target's hate list. It reports whether target died.
func BasicStrike(attacker, target *model.Unit) bool {
	if target.IsDead() {
		return false
	}
	dmg := attacker.Template().AttackPower()
	target.ReduceHP(dmg)
	target.AggroList().AddDamage(attacker.ObjectID(), int64(dmg))
	return target.IsDead()
}
