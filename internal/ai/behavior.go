package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/npcbrain/internal/model"
)

var (
	// ErrKindMismatch is returned by CopyFrom when source and destination differ in kind.
	ErrKindMismatch = errors.New("behavior kind mismatch")
	// ErrUnknownKind is returned for kind names with no registered behavior.
	ErrUnknownKind = errors.New("unknown behavior kind")
)

// Kind discriminates concrete behavior variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindWander
	KindAttack
	KindAggressiveWander
)

// String returns the kind name used in templates and logs.
func (k Kind) String() string {
	switch k {
	case KindWander:
		return "wander"
	case KindAttack:
		return "attack"
	case KindAggressiveWander:
		return "aggressive_wander"
	default:
		return "invalid"
	}
}

// ParseKind maps a template AI type name to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{KindWander, KindAttack, KindAggressiveWander} {
		if k.String() == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// NewBehavior creates an unbound behavior of kind in the NEW state.
func NewBehavior(kind Kind) (Behavior, error) {
	switch kind {
	case KindWander:
		return NewWander(), nil
	case KindAttack:
		return NewAttack(), nil
	case KindAggressiveWander:
		return NewAggressiveWander(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Flags is the lifecycle signal a behavior exposes to its owner.
type Flags uint8

const (
	// FlagNew - created, BeginBehavior not run yet
	FlagNew Flags = 1 << iota
	// FlagActive - currently driving the unit
	FlagActive
	// FlagEnd - requests termination; owner must call EndBehavior and drop it
	FlagEnd
)

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Behavior is one unit of AI conduct with a fixed lifecycle:
// NEW → ACTIVE → END. Owners drive it in this order every tick:
// Validate, BeginBehavior (when NEW), ThinkFrame, MovementFrame,
// ActionFrame, CleanupFrame, and EndBehavior once FlagEnd is observed.
type Behavior interface {
	Kind() Kind
	Flags() Flags
	SetFlag(f Flags)
	ClearFlag(f Flags)

	Brain() *Brain
	SetBrain(b *Brain)
	Self() uint32
	SetSelf(objectID uint32)

	// Validate reports whether preconditions still hold. On false it has
	// already set FlagEnd and the behavior must not be advanced.
	Validate() bool
	BeginBehavior()
	ThinkFrame()
	MovementFrame()
	ActionFrame()
	CleanupFrame()
	EndBehavior()

	// CopyFrom copies all state from other. It fails with ErrKindMismatch,
	// leaving the receiver untouched, unless other has the same kind.
	CopyFrom(other Behavior) error
	// Clone returns a same-kind copy bound to brain and self.
	Clone(brain *Brain, self uint32) Behavior
}

// Reactive is implemented by behaviors that respond to being hit
// or to an ally's call for help.
type Reactive interface {
	Damaged(attacker *model.Unit)
	Assist(ally, attacker *model.Unit)
}

// Homed is implemented by behaviors anchored to a home point.
type Homed interface {
	SetHome(home model.Location, radius float64)
}

// base carries the state shared by every behavior.
// brain and self are non-owning: the brain and the unit outlive the behavior.
type base struct {
	kind  Kind
	flags Flags
	brain *Brain
	self  uint32
}

func newBase(kind Kind) base {
	return base{kind: kind, flags: FlagNew}
}

func (b *base) Kind() Kind { return b.kind }
func (b *base) Flags() Flags { return b.flags }
func (b *base) SetFlag(f Flags) { b.flags |= f }
func (b *base) ClearFlag(f Flags) { b.flags &^= f }
func (b *base) Brain() *Brain { return b.brain }
func (b *base) SetBrain(brain *Brain) { b.brain = brain }
func (b *base) Self() uint32 { return b.self }
func (b *base) SetSelf(objectID uint32) { b.self = objectID }

// bound reports whether owner and unit are set.
func (b *base) bound() bool {
	return b.brain != nil && b.self != model.NoTarget
}

// env returns the brain environment; callers must check bound first.
func (b *base) env() *Env {
	return b.brain.env
}

// unit resolves self through the world registry.
func (b *base) unit() (*model.Unit, bool) {
	if !b.bound() || b.brain.env.World == nil {
		return nil, false
	}
	return b.brain.env.World.Unit(b.self)
}

// activate performs the NEW → ACTIVE transition.
func (b *base) activate() {
	b.flags &^= FlagNew
	b.flags |= FlagActive
}

// finish performs the → END transition and reports whether the
// behavior was active, i.e. whether exit actions must run.
func (b *base) finish() bool {
	wasActive := b.flags.Has(FlagActive)
	b.flags &^= FlagActive
	b.flags |= FlagEnd
	return wasActive
}

// copyBase copies lifecycle state; owner and unit bindings are kept.
func (b *base) copyBase(other *base) {
	b.flags = other.flags
}

// checkKind validates a CopyFrom source and logs violations.
func checkKind(dst, src Behavior) error {
	if src == nil {
		err := fmt.Errorf("%w: copy %s from nil", ErrKindMismatch, dst.Kind())
		slog.Warn("behavior copy rejected", "error", err)
		return err
	}
	if src.Kind() != dst.Kind() {
		err := fmt.Errorf("%w: copy %s from %s", ErrKindMismatch, dst.Kind(), src.Kind())
		slog.Warn("behavior copy rejected", "error", err)
		return err
	}
	return nil
}

// warnUnbound logs a lifecycle call on a behavior with no owner or unit.
func warnUnbound(b *base, op string) {
	slog.Warn("behavior started without valid information",
		"kind", b.kind,
		"op", op,
		"self", b.self,
		"hasBrain", b.brain != nil)
}

// wrongType reports a same-kind source of an unexpected concrete type.
func wrongType(dst, src Behavior) error {
	err := fmt.Errorf("%w: copy %s from %T", ErrKindMismatch, dst.Kind(), src)
	slog.Warn("behavior copy rejected", "error", err)
	return err
}
