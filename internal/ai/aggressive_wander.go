package ai

import (
	"log/slog"

	"github.com/udisondev/npcbrain/internal/model"
)

// AggressiveWander wanders around home and engages whatever the threat
// evaluator picks. It owns a Wander child that holds control while no
// target is engaged and an Attack child that holds control while one is.
type AggressiveWander struct {
	base

	movement *Wander
	attack   *Attack

	attacking      bool
	lastAggroCheck int64 // game ms, NeverChecked before the first run
	target         uint32
}

// NewAggressiveWander creates an unbound composite with fresh children.
func NewAggressiveWander() *AggressiveWander {
	return &AggressiveWander{
		base:           newBase(KindAggressiveWander),
		movement:       NewWander(),
		attack:         NewAttack(),
		lastAggroCheck: NeverChecked,
	}
}

// SetBrain binds the composite and both children to brain.
func (a *AggressiveWander) SetBrain(brain *Brain) {
	a.brain = brain
	a.movement.SetBrain(brain)
	a.attack.SetBrain(brain)
}

// SetSelf binds the composite and both children to the unit.
func (a *AggressiveWander) SetSelf(objectID uint32) {
	a.self = objectID
	a.movement.SetSelf(objectID)
	a.attack.SetSelf(objectID)
}

// SetHome anchors the movement child.
func (a *AggressiveWander) SetHome(home model.Location, radius float64) {
	a.movement.SetHome(home, radius)
}

// Attacking reports whether the attack child holds control.
func (a *AggressiveWander) Attacking() bool {
	return a.attacking
}

// Target returns the engaged unit, NoTarget when wandering.
func (a *AggressiveWander) Target() uint32 {
	return a.target
}

// LastAggroCheck returns the game time of the last evaluator run.
func (a *AggressiveWander) LastAggroCheck() int64 {
	return a.lastAggroCheck
}

// Movement returns the owned wander child.
func (a *AggressiveWander) Movement() *Wander {
	return a.movement
}

// AttackChild returns the owned attack child.
func (a *AggressiveWander) AttackChild() *Attack {
	return a.attack
}

// Validate fails when the movement child does, i.e. the unit is gone or dead.
func (a *AggressiveWander) Validate() bool {
	if !a.bound() || !a.movement.Validate() {
		a.SetFlag(FlagEnd)
		return false
	}
	return true
}

// BeginBehavior starts wandering and runs an immediate aggro check.
func (a *AggressiveWander) BeginBehavior() {
	if _, ok := a.unit(); !ok {
		warnUnbound(&a.base, "aggressive_wander.begin")
		return
	}

	a.movement.BeginBehavior()

	a.lastAggroCheck = NeverChecked
	a.updateAggro()

	a.activate()
}

// ThinkFrame re-evaluates aggro and thinks for whichever child holds control.
func (a *AggressiveWander) ThinkFrame() {
	a.updateAggro()

	if a.attacking {
		if a.attack.Validate() {
			if a.attack.Flags().Has(FlagNew) {
				a.attack.BeginBehavior()
			}
			if !a.attack.Flags().Has(FlagNew) {
				a.attack.ThinkFrame()
			}
		}

		if a.attack.Flags().Has(FlagEnd) {
			a.disengage()

			if a.attacking {
				// Re-engaged in the same step: start the new attack right away.
				if a.attack.Validate() {
					if a.attack.Flags().Has(FlagNew) {
						a.attack.BeginBehavior()
					}
					a.attack.ThinkFrame()
				}
			}
		}
	}

	if !a.attacking {
		a.movement.ThinkFrame()
	}
}

// MovementFrame moves for whichever child holds control.
func (a *AggressiveWander) MovementFrame() {
	if !a.attacking {
		a.movement.MovementFrame()
		return
	}
	if a.attack.Validate() && !a.attack.Flags().Has(FlagNew) {
		a.attack.MovementFrame()
	}
}

// ActionFrame lets the attack child act, then handles its termination.
// A freshly armed attack child waits for the next think before acting.
func (a *AggressiveWander) ActionFrame() {
	a.updateAggro()

	if !a.attacking {
		a.movement.ActionFrame()
		return
	}

	if a.attack.Validate() && !a.attack.Flags().Has(FlagNew) {
		a.attack.ActionFrame()
	}

	if a.attack.Flags().Has(FlagEnd) {
		a.disengage()
		if !a.attacking {
			a.movement.ActionFrame()
		}
	}
}

// CleanupFrame does nothing; cleanup needs are leaf-local.
func (a *AggressiveWander) CleanupFrame() {}

// EndBehavior ends both children.
func (a *AggressiveWander) EndBehavior() {
	a.attack.EndBehavior()
	a.movement.EndBehavior()
	a.attacking = false
	a.target = model.NoTarget
	a.finish()
}

// Aggro drops any current engagement and engages attacker immediately,
// bypassing the evaluator.
func (a *AggressiveWander) Aggro(attacker *model.Unit) {
	if attacker == nil || !a.bound() {
		return
	}
	a.engage(attacker.ObjectID())
}

// Damaged reacts to being hit. Active only with reactive aggro enabled.
func (a *AggressiveWander) Damaged(attacker *model.Unit) {
	if attacker == nil || !a.bound() || !a.env().Config.ReactiveAggro {
		return
	}
	env := a.env()
	if self, ok := a.unit(); ok && env.Help != nil {
		env.Help.CallForHelp(self, env.Config.HelpRadius, attacker)
	}
	a.Aggro(attacker)
}

// Assist reacts to an ally's call for help. Active only with reactive aggro enabled.
func (a *AggressiveWander) Assist(ally, attacker *model.Unit) {
	if attacker == nil || !a.bound() || !a.env().Config.ReactiveAggro {
		return
	}
	a.Aggro(attacker)
}

// CopyFrom copies state, children included. Copied children are rebound
// to this composite's brain and unit.
func (a *AggressiveWander) CopyFrom(other Behavior) error {
	if err := checkKind(a, other); err != nil {
		return err
	}
	o, ok := other.(*AggressiveWander)
	if !ok {
		return wrongType(a, other)
	}

	if err := a.attack.CopyFrom(o.attack); err != nil {
		return err
	}
	a.attack.SetBrain(a.brain)
	a.attack.SetSelf(a.self)

	if err := a.movement.CopyFrom(o.movement); err != nil {
		return err
	}
	a.movement.SetBrain(a.brain)
	a.movement.SetSelf(a.self)

	a.lastAggroCheck = o.lastAggroCheck
	a.attacking = o.attacking
	a.target = o.target
	a.copyBase(&o.base)
	return nil
}

// Clone returns a copy bound to brain and self.
func (a *AggressiveWander) Clone(brain *Brain, self uint32) Behavior {
	n := NewAggressiveWander()
	n.SetBrain(brain)
	n.SetSelf(self)
	_ = n.CopyFrom(a)
	return n
}

// updateAggro runs the throttled threat evaluation and switches the
// engagement when a different target wins.
func (a *AggressiveWander) updateAggro() {
	env := a.env()
	now := env.Now()

	if throttled(a.lastAggroCheck, now, env.Config.BehaviorUpdate) {
		return
	}
	// No aggro updates while a swing is in progress.
	if a.brain.ActionActive(ActionAttacking) {
		return
	}
	self, ok := a.unit()
	if !ok || !self.IsAttackReady(now) {
		return
	}

	a.lastAggroCheck = now

	current := model.NoTarget
	if a.attacking {
		current = a.attack.Target()
	}

	target := env.Evaluator().SelectTarget(self, current)
	if target != model.NoTarget && !(a.attacking && a.attack.Target() == target) {
		a.engage(target)
	}

	if a.attacking && env.Help != nil {
		if victim, found := env.World.Unit(a.attack.Target()); found {
			env.Help.CallForHelp(self, env.Config.HelpRadius, victim)
		}
	}
}

// engage tears down any engagement and arms the attack child on target.
func (a *AggressiveWander) engage(target uint32) {
	if a.attacking {
		a.attack.EndBehavior()
	}
	a.attacking = true
	a.target = target

	a.attack.Init(a.brain, a.self, target)
	a.attack.DisableAggroTrigger()

	if IsDebugEnabled() {
		slog.Debug("aggressive wander engaged",
			"objectID", a.self,
			"targetID", target)
	}
}

// disengage ends the finished attack child and re-plans in the same step:
// either a new target is engaged or movement is restarted.
func (a *AggressiveWander) disengage() {
	a.attack.EndBehavior()
	a.attacking = false
	a.target = model.NoTarget
	a.lastAggroCheck = NeverChecked

	a.updateAggro()

	if !a.attacking {
		a.movement.BeginBehavior()
	}
}
