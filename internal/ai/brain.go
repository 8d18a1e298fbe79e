package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/npcbrain/internal/model"
)

// ActionID names a timed action state a behavior can hold open on its brain.
type ActionID int

const (
	// ActionAttacking is open while an attack swing is in progress.
	ActionAttacking ActionID = iota
	actionCount
)

// Brain owns the top-level behavior of one unit and drives it once per tick.
type Brain struct {
	env       *Env
	unitID    uint32
	behavior  Behavior
	actions   [actionCount]int64 // game ms until which each action is active
	isRunning atomic.Bool
}

// NewBrain creates a brain for unitID. It drives nothing until SetBehavior.
func NewBrain(env *Env, unitID uint32) *Brain {
	return &Brain{
		env:    env,
		unitID: unitID,
	}
}

// Env returns the collaborators shared by this brain's behaviors.
func (b *Brain) Env() *Env {
	return b.env
}

// UnitID returns the unit this brain acts for.
func (b *Brain) UnitID() uint32 {
	return b.unitID
}

// Unit resolves the driven unit.
func (b *Brain) Unit() (*model.Unit, bool) {
	if b.env == nil || b.env.World == nil {
		return nil, false
	}
	return b.env.World.Unit(b.unitID)
}

// Behavior returns the active top-level behavior, nil when none.
func (b *Brain) Behavior() Behavior {
	return b.behavior
}

// SetBehavior replaces the top-level behavior. The previous one is ended
// and dropped; the new one is bound to this brain and its unit.
func (b *Brain) SetBehavior(bh Behavior) {
	if b.behavior != nil {
		b.behavior.EndBehavior()
	}
	if bh != nil {
		bh.SetBrain(b)
		bh.SetSelf(b.unitID)
	}
	b.behavior = bh
}

// ActionActive reports whether action id is still open at the current game time.
func (b *Brain) ActionActive(id ActionID) bool {
	return b.env.Now() < b.actions[id]
}

// StartAction keeps action id open until game time untilMs.
func (b *Brain) StartAction(id ActionID, untilMs int64) {
	b.actions[id] = untilMs
}

// Start starts driving the behavior.
func (b *Brain) Start() {
	b.isRunning.Store(true)

	if IsDebugEnabled() {
		slog.Debug("brain started",
			"objectID", b.unitID,
			"behavior", b.behaviorKind())
	}
}

// Stop ends the active behavior and stops driving.
func (b *Brain) Stop() {
	b.isRunning.Store(false)
	if b.behavior != nil {
		b.endBehavior()
	}
	b.SetIntention(model.IntentionIdle)

	if IsDebugEnabled() {
		slog.Debug("brain stopped", "objectID", b.unitID)
	}
}

// SetIntention sets the unit's visible AI mode.
func (b *Brain) SetIntention(intention model.Intention) {
	u, ok := b.Unit()
	if !ok {
		return
	}
	old := u.Intention()
	u.SetIntention(intention)

	if old != intention && IsDebugEnabled() {
		slog.Debug("intention changed",
			"objectID", b.unitID,
			"from", old,
			"to", intention)
	}
}

// CurrentIntention returns the unit's visible AI mode.
func (b *Brain) CurrentIntention() model.Intention {
	u, ok := b.Unit()
	if !ok {
		return model.IntentionIdle
	}
	return u.Intention()
}

// Tick runs one simulation step of the active behavior:
// Validate, BeginBehavior when NEW, then Think, Movement, Action and
// Cleanup frames. FlagEnd is checked after every phase; once seen,
// EndBehavior runs exactly once and the behavior is dropped.
func (b *Brain) Tick() {
	if !b.isRunning.Load() {
		return
	}
	bh := b.behavior
	if bh == nil {
		return
	}

	if !bh.Validate() {
		b.endBehavior()
		return
	}

	if bh.Flags().Has(FlagNew) {
		bh.BeginBehavior()
		if b.ended() {
			return
		}
		// Begin was refused; do not advance a behavior that never started.
		if bh.Flags().Has(FlagNew) {
			return
		}
	}

	phases := [...]func(){bh.ThinkFrame, bh.MovementFrame, bh.ActionFrame, bh.CleanupFrame}
	for _, phase := range phases {
		phase()
		if b.ended() {
			return
		}
	}
}

// NotifyDamaged forwards a hit on this brain's unit to a reactive behavior.
func (b *Brain) NotifyDamaged(attacker *model.Unit) {
	if r, ok := b.behavior.(Reactive); ok {
		r.Damaged(attacker)
	}
}

// NotifyAssist forwards an ally's help request to a reactive behavior.
func (b *Brain) NotifyAssist(ally, attacker *model.Unit) {
	if r, ok := b.behavior.(Reactive); ok {
		r.Assist(ally, attacker)
	}
}

// ended ends and drops the behavior if it raised FlagEnd.
func (b *Brain) ended() bool {
	if b.behavior == nil {
		return true
	}
	if !b.behavior.Flags().Has(FlagEnd) {
		return false
	}
	b.endBehavior()
	return true
}

func (b *Brain) endBehavior() {
	bh := b.behavior
	b.behavior = nil
	bh.EndBehavior()

	if IsDebugEnabled() {
		slog.Debug("behavior ended",
			"objectID", b.unitID,
			"behavior", bh.Kind())
	}
}

func (b *Brain) behaviorKind() Kind {
	if b.behavior == nil {
		return KindInvalid
	}
	return b.behavior.Kind()
}
