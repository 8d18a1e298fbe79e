package ai

import (
	"log/slog"
	"math"

	"github.com/udisondev/npcbrain/internal/model"
)

// Wander roams between random waypoints around a home point.
// It is the movement leaf of the aggressive-wander composite.
type Wander struct {
	base

	home        model.Location
	hasHome     bool
	radius      float64 // 0 means config default
	waypoint    model.Location
	hasWaypoint bool
	repathAt    int64 // game ms
}

// NewWander creates an unbound wander behavior.
func NewWander() *Wander {
	return &Wander{base: newBase(KindWander)}
}

// SetHome anchors wandering to home within radius.
func (w *Wander) SetHome(home model.Location, radius float64) {
	w.home = home
	w.hasHome = true
	w.radius = radius
}

// Home returns the anchor point and whether one is set.
func (w *Wander) Home() (model.Location, bool) {
	return w.home, w.hasHome
}

// Waypoint returns the current destination and whether one is set.
func (w *Wander) Waypoint() (model.Location, bool) {
	return w.waypoint, w.hasWaypoint
}

// Validate fails when the unit is gone or dead.
func (w *Wander) Validate() bool {
	u, ok := w.unit()
	if !ok || u.IsDead() {
		w.SetFlag(FlagEnd)
		return false
	}
	return true
}

// BeginBehavior picks a fresh waypoint. It may be called again on an
// active wander to repath, which is how the composite resumes movement.
func (w *Wander) BeginBehavior() {
	u, ok := w.unit()
	if !ok {
		warnUnbound(&w.base, "wander.begin")
		return
	}

	if !w.hasHome {
		w.home = u.Location()
		w.hasHome = true
		if s := u.Spawn(); s != nil {
			w.home = s.Location()
			w.radius = s.WanderRadius()
		}
	}

	w.repath(u)
	u.SetIntention(model.IntentionWander)
	w.activate()
}

// ThinkFrame repaths once the wander period has passed.
func (w *Wander) ThinkFrame() {
	u, ok := w.unit()
	if !ok {
		return
	}
	if !w.hasWaypoint || w.env().Now() >= w.repathAt {
		w.repath(u)
	}
}

// MovementFrame steps toward the waypoint at the unit's move speed.
func (w *Wander) MovementFrame() {
	if !w.hasWaypoint {
		return
	}
	u, ok := w.unit()
	if !ok {
		return
	}
	loc := u.Location()
	if loc.X == w.waypoint.X && loc.Y == w.waypoint.Y {
		return
	}
	env := w.env()
	step := u.MoveSpeed() * env.Config.TickInterval.Seconds()
	if env.Move != nil {
		env.Move(u, loc.StepToward(w.waypoint, step))
	}
}

func (w *Wander) ActionFrame() {}

func (w *Wander) CleanupFrame() {}

// EndBehavior stops wandering. No-op unless active.
func (w *Wander) EndBehavior() {
	if !w.finish() {
		return
	}
	w.hasWaypoint = false
	if u, ok := w.unit(); ok {
		u.SetIntention(model.IntentionIdle)
	}
}

// CopyFrom copies state from another wander.
func (w *Wander) CopyFrom(other Behavior) error {
	if err := checkKind(w, other); err != nil {
		return err
	}
	o, ok := other.(*Wander)
	if !ok {
		return wrongType(w, other)
	}

	w.copyBase(&o.base)
	w.home = o.home
	w.hasHome = o.hasHome
	w.radius = o.radius
	w.waypoint = o.waypoint
	w.hasWaypoint = o.hasWaypoint
	w.repathAt = o.repathAt
	return nil
}

// Clone returns a copy bound to brain and self.
func (w *Wander) Clone(brain *Brain, self uint32) Behavior {
	n := NewWander()
	n.SetBrain(brain)
	n.SetSelf(self)
	_ = n.CopyFrom(w)
	return n
}

func (w *Wander) repath(u *model.Unit) {
	env := w.env()
	radius := w.radius
	if radius <= 0 {
		radius = env.Config.WanderRadius
	}

	angle := env.randFloat() * 2 * math.Pi
	dist := env.randFloat() * radius
	w.waypoint = w.home.WithCoordinates(
		w.home.X+int32(math.Round(math.Cos(angle)*dist)),
		w.home.Y+int32(math.Round(math.Sin(angle)*dist)),
		w.home.Z,
	)
	w.hasWaypoint = true
	w.repathAt = env.Now() + env.Config.WanderPeriod.Milliseconds()

	if IsDebugEnabled() {
		slog.Debug("wander repath",
			"objectID", u.ObjectID(),
			"toX", w.waypoint.X,
			"toY", w.waypoint.Y)
	}
}
