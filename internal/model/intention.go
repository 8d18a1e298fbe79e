package model

// Intention is the externally visible AI mode of a unit.
type Intention int32

const (
	// IntentionIdle - no behavior is driving the unit
	IntentionIdle Intention = iota
	// IntentionWander - unit is wandering around its home
	IntentionWander
	// IntentionAttack - unit is engaging a target
	IntentionAttack
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionWander:
		return "WANDER"
	case IntentionAttack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}
