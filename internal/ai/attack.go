package ai

import (
	"log/slog"

	"github.com/udisondev/npcbrain/internal/model"
)

// Attack chases a single target and strikes it whenever in range and the
// unit's attack is ready. It ends itself when the target is lost, leaves
// chase range, or no strike lands within the chase time.
type Attack struct {
	base

	target       uint32
	aggroTrigger bool
	lastProgress int64 // game ms of begin or last strike
	inRange      bool
}

// NewAttack creates an unbound attack behavior with no target.
func NewAttack() *Attack {
	return &Attack{
		base:         newBase(KindAttack),
		aggroTrigger: true,
	}
}

// Init rebinds the attack to brain, self and target and resets it to NEW.
func (a *Attack) Init(brain *Brain, self, target uint32) {
	a.brain = brain
	a.self = self
	a.flags = FlagNew
	a.target = target
	a.aggroTrigger = true
	a.lastProgress = 0
	a.inRange = false
}

// DisableAggroTrigger stops strikes from notifying the victim's brain.
func (a *Attack) DisableAggroTrigger() {
	a.aggroTrigger = false
}

// Target returns the engaged unit, NoTarget when unset.
func (a *Attack) Target() uint32 {
	return a.target
}

// Validate fails when the unit or target is gone, dead or untargetable,
// the target left chase range, or the chase timed out.
func (a *Attack) Validate() bool {
	if !a.valid() {
		a.SetFlag(FlagEnd)
		return false
	}
	return true
}

func (a *Attack) valid() bool {
	u, ok := a.unit()
	if !ok || u.IsDead() {
		return false
	}
	env := a.env()
	t, ok := env.World.Unit(a.target)
	if !ok || t.IsDead() || !t.IsTargetable() {
		return false
	}
	if edgeDistance(u.Location(), t) > u.ChaseRange() {
		return false
	}
	if a.flags.Has(FlagActive) && env.Config.ChaseTime > 0 &&
		env.Now()-a.lastProgress > env.Config.ChaseTime.Milliseconds() {
		return false
	}
	return true
}

// BeginBehavior locks the unit on the target.
func (a *Attack) BeginBehavior() {
	u, ok := a.unit()
	if !ok {
		warnUnbound(&a.base, "attack.begin")
		return
	}
	u.SetTarget(a.target)
	u.SetIntention(model.IntentionAttack)
	a.lastProgress = a.env().Now()
	a.activate()

	if IsDebugEnabled() {
		slog.Debug("attack started",
			"objectID", u.ObjectID(),
			"targetID", a.target)
	}
}

// ThinkFrame decides between chasing and striking.
func (a *Attack) ThinkFrame() {
	u, t, ok := a.resolve()
	if !ok {
		a.inRange = false
		return
	}
	a.inRange = edgeDistance(u.Location(), t) <= u.AttackRange()
}

// MovementFrame closes in on the target when out of reach.
func (a *Attack) MovementFrame() {
	if a.inRange {
		return
	}
	u, t, ok := a.resolve()
	if !ok {
		return
	}
	env := a.env()
	if env.Move == nil {
		return
	}

	loc := u.Location()
	reach := u.AttackRange() + t.FootprintPadding()
	gap := loc.Distance2D(t.Location()) - reach*0.9
	if gap <= 0 {
		return
	}
	step := min(u.MoveSpeed()*env.Config.TickInterval.Seconds(), gap)
	env.Move(u, loc.StepToward(t.Location(), step))
}

// ActionFrame swings at the target when in range and ready.
func (a *Attack) ActionFrame() {
	if !a.inRange || a.brain.ActionActive(ActionAttacking) {
		return
	}
	u, t, ok := a.resolve()
	if !ok {
		return
	}
	env := a.env()
	now := env.Now()
	if !u.IsAttackReady(now) {
		return
	}

	if env.Strike != nil {
		env.Strike(u, t)
	}
	u.StartAttackCooldown(now)
	a.brain.StartAction(ActionAttacking, now+u.Template().AttackDelay()/2)
	a.lastProgress = now

	if a.aggroTrigger && env.Brains != nil {
		if victim, found := env.Brains.Brain(t.ObjectID()); found {
			victim.NotifyDamaged(u)
		}
	}

	if IsDebugEnabled() {
		slog.Debug("attack strike",
			"objectID", u.ObjectID(),
			"targetID", t.ObjectID())
	}
}

func (a *Attack) CleanupFrame() {}

// EndBehavior releases the target. No-op unless active.
func (a *Attack) EndBehavior() {
	if !a.finish() {
		return
	}
	a.inRange = false
	u, ok := a.unit()
	if !ok {
		return
	}
	if u.TargetID() == a.target {
		u.ClearTarget()
	}
	u.SetIntention(model.IntentionIdle)
}

// CopyFrom copies state from another attack.
func (a *Attack) CopyFrom(other Behavior) error {
	if err := checkKind(a, other); err != nil {
		return err
	}
	o, ok := other.(*Attack)
	if !ok {
		return wrongType(a, other)
	}

	a.copyBase(&o.base)
	a.target = o.target
	a.aggroTrigger = o.aggroTrigger
	a.lastProgress = o.lastProgress
	a.inRange = o.inRange
	return nil
}

// Clone returns a copy bound to brain and self.
func (a *Attack) Clone(brain *Brain, self uint32) Behavior {
	n := NewAttack()
	n.SetBrain(brain)
	n.SetSelf(self)
	_ = n.CopyFrom(a)
	return n
}

func (a *Attack) resolve() (self, target *model.Unit, ok bool) {
	self, ok = a.unit()
	if !ok {
		return nil, nil, false
	}
	target, ok = a.env().World.Unit(a.target)
	if !ok {
		return nil, nil, false
	}
	return self, target, true
}
