package model

import "sync"

// NoTarget is the "none" unit identity.
const NoTarget uint32 = 0

// Unit is a live combat unit in the world: an NPC, a pet or a player
// avatar. All accessors are safe for concurrent use; the AI tick only
// reads other units and mutates its own.
type Unit struct {
	objectID uint32
	template *UnitTemplate

	mu            sync.RWMutex
	name          string
	faction       string
	location      Location
	currentHP     int32
	ownerID       uint32
	targetID      uint32
	attackReadyAt int64 // game ms
	intention     Intention
	targetable    bool
	spawn         *Spawn

	aggroList *AggroList
}

// NewUnit creates a unit at loc with stats taken from template.
func NewUnit(objectID uint32, template *UnitTemplate, loc Location) *Unit {
	return &Unit{
		objectID:   objectID,
		template:   template,
		name:       template.Name(),
		faction:    template.Faction(),
		location:   loc,
		currentHP:  template.MaxHP(),
		targetable: true,
		aggroList:  NewAggroList(),
	}
}

// ObjectID returns the stable identity (immutable).
func (u *Unit) ObjectID() uint32 {
	return u.objectID
}

// Template returns the static template.
func (u *Unit) Template() *UnitTemplate {
	return u.template
}

func (u *Unit) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name
}

// Faction returns the allegiance used by the targeting policy.
func (u *Unit) Faction() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.faction
}

// SetFaction changes allegiance (charm, ownership transfer).
func (u *Unit) SetFaction(faction string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.faction = faction
}

func (u *Unit) Location() Location {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.location
}

func (u *Unit) SetLocation(loc Location) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.location = loc
}

// BoundsWidth returns the X dimension of the unit's footprint.
func (u *Unit) BoundsWidth() float64 {
	return u.template.BoundsWidth()
}

// FootprintPadding is the half-diagonal of the unit's footprint: how far
// its edge can reach beyond its center point.
func (u *Unit) FootprintPadding() float64 {
	return u.template.BoundsWidth() * FootprintDiag
}

func (u *Unit) AggroRange() float64 {
	return u.template.AggroRange()
}

func (u *Unit) ChaseRange() float64 {
	return u.template.ChaseRange()
}

func (u *Unit) AttackRange() float64 {
	return u.template.AttackRange()
}

func (u *Unit) MoveSpeed() float64 {
	return u.template.MoveSpeed()
}

func (u *Unit) CurrentHP() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.currentHP
}

// SetCurrentHP sets HP clamped to [0, MaxHP].
func (u *Unit) SetCurrentHP(hp int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currentHP = max(0, min(hp, u.template.MaxHP()))
}

// ReduceHP subtracts damage and returns the remaining HP.
func (u *Unit) ReduceHP(damage int32) int32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currentHP = max(0, u.currentHP-damage)
	return u.currentHP
}

func (u *Unit) IsDead() bool {
	return u.CurrentHP() <= 0
}

// OwnerID returns the master unit (pet owner) or NoTarget.
func (u *Unit) OwnerID() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.ownerID
}

func (u *Unit) SetOwnerID(ownerID uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ownerID = ownerID
}

// TargetID returns the unit's current target or NoTarget.
func (u *Unit) TargetID() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.targetID
}

func (u *Unit) SetTarget(objectID uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.targetID = objectID
}

func (u *Unit) ClearTarget() {
	u.SetTarget(NoTarget)
}

// IsAttackReady reports whether the attack cooldown has expired at game time now.
func (u *Unit) IsAttackReady(now int64) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return now >= u.attackReadyAt
}

// StartAttackCooldown blocks attacks until now + the template attack delay.
func (u *Unit) StartAttackCooldown(now int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attackReadyAt = now + u.template.AttackDelay()
}

func (u *Unit) Intention() Intention {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.intention
}

func (u *Unit) SetIntention(intention Intention) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.intention = intention
}

// IsTargetable reports whether the unit can be picked as a target at all.
func (u *Unit) IsTargetable() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.targetable
}

func (u *Unit) SetTargetable(targetable bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.targetable = targetable
}

// Spawn returns the spawn point this unit came from, nil for summoned units.
func (u *Unit) Spawn() *Spawn {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.spawn
}

func (u *Unit) SetSpawn(spawn *Spawn) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.spawn = spawn
}

// AggroList returns the unit's hate table.
func (u *Unit) AggroList() *AggroList {
	return u.aggroList
}

// RegionFilter selects which units a spatial query returns.
type RegionFilter uint8

const (
	// RegionActiveUnit matches living units.
	RegionActiveUnit RegionFilter = iota
	// RegionAnyUnit matches every registered unit, dead ones included.
	RegionAnyUnit
)

// Matches reports whether u passes the filter.
func (f RegionFilter) Matches(u *Unit) bool {
	switch f {
	case RegionActiveUnit:
		return !u.IsDead()
	default:
		return true
	}
}
