package ai

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/npcbrain/internal/config"
	"github.com/udisondev/npcbrain/internal/model"
	"github.com/udisondev/npcbrain/internal/world"
)

// brainMap is a BrainLookup over a plain map.
type brainMap map[uint32]*Brain

func (m brainMap) Brain(objectID uint32) (*Brain, bool) {
	b, ok := m[objectID]
	return b, ok
}

type helpCall struct {
	caller   uint32
	attacker uint32
	radius   float64
}

// recordingHelp records every call for help.
type recordingHelp struct {
	calls []helpCall
}

func (h *recordingHelp) CallForHelp(caller *model.Unit, radius float64, attacker *model.Unit) {
	h.calls = append(h.calls, helpCall{
		caller:   caller.ObjectID(),
		attacker: attacker.ObjectID(),
		radius:   radius,
	})
}

// scoreTable scores candidates by object ID; unknown IDs score 0.
type scoreTable map[uint32]float64

func (s scoreTable) Threat(_, candidate *model.Unit, _ bool) float64 {
	return s[candidate.ObjectID()]
}

type strikeRecord struct {
	attacker uint32
	target   uint32
	at       int64
}

type fixture struct {
	t       testing.TB
	world   *world.World
	clock   *GameClock
	env     *Env
	help    *recordingHelp
	brains  brainMap
	strikes []strikeRecord
	nextID  uint32
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		t:      t,
		world:  world.New(),
		clock:  NewGameClock(1000),
		help:   &recordingHelp{},
		brains: make(brainMap),
	}
	f.env = &Env{
		World:  f.world,
		Policy: FactionPolicy{},
		Help:   f.help,
		Brains: f.brains,
		Clock:  f.clock,
		Move:   f.world.MoveUnit,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Config: config.DefaultAI(),
	}
	f.env.Strike = func(attacker, target *model.Unit) {
		f.strikes = append(f.strikes, strikeRecord{
			attacker: attacker.ObjectID(),
			target:   target.ObjectID(),
			at:       f.clock.Now(),
		})
	}
	return f
}

// setThreat swaps the scorer and drops the cached evaluator.
func (f *fixture) setThreat(s ThreatScorer) {
	f.env.Threat = s
	f.env.evaluator = nil
}

func baseParams(faction string) model.TemplateParams {
	return model.TemplateParams{
		TemplateID:  1,
		Name:        faction,
		Faction:     faction,
		MaxHP:       100,
		BoundsWidth: 10,
		AggroRange:  300,
		AttackRange: 40,
		MoveSpeed:   100,
		AttackDelay: 1000,
		AttackPower: 10,
	}
}

// addUnit places a unit of faction at (x, y).
func (f *fixture) addUnit(faction string, x, y int32, mods ...func(*model.TemplateParams)) *model.Unit {
	f.t.Helper()

	p := baseParams(faction)
	for _, m := range mods {
		m(&p)
	}
	f.nextID++
	u := model.NewUnit(f.nextID, model.NewUnitTemplate(p), model.NewLocation(x, y, 0, 0))
	require.NoError(f.t, f.world.AddUnit(u))
	return u
}

// bind creates a running brain for u driving bh.
func (f *fixture) bind(u *model.Unit, bh Behavior) *Brain {
	b := NewBrain(f.env, u.ObjectID())
	b.SetBehavior(bh)
	b.Start()
	f.brains[u.ObjectID()] = b
	return b
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
}

// moveTo teleports u, keeping the world index current.
func (f *fixture) moveTo(u *model.Unit, x, y int32) {
	f.world.MoveUnit(u, u.Location().WithCoordinates(x, y, 0))
}

// scripted is a behavior recording the lifecycle calls it receives.
type scripted struct {
	base

	calls       []string
	invalid     bool
	endIn       string
	refuseBegin bool
	ends        int
}

func newScripted() *scripted {
	return &scripted{base: newBase(KindWander)}
}

func (p *scripted) record(name string) {
	p.calls = append(p.calls, name)
	if p.endIn == name {
		p.SetFlag(FlagEnd)
	}
}

func (p *scripted) Validate() bool {
	p.calls = append(p.calls, "validate")
	if p.invalid {
		p.SetFlag(FlagEnd)
		return false
	}
	return true
}

func (p *scripted) BeginBehavior() {
	p.record("begin")
	if !p.refuseBegin {
		p.activate()
	}
}

func (p *scripted) ThinkFrame()    { p.record("think") }
func (p *scripted) MovementFrame() { p.record("movement") }
func (p *scripted) ActionFrame()   { p.record("action") }
func (p *scripted) CleanupFrame()  { p.record("cleanup") }

func (p *scripted) EndBehavior() {
	p.ends++
	p.calls = append(p.calls, "end")
	p.finish()
}

func (p *scripted) CopyFrom(other Behavior) error {
	return checkKind(p, other)
}

func (p *scripted) Clone(brain *Brain, self uint32) Behavior {
	n := newScripted()
	n.SetBrain(brain)
	n.SetSelf(self)
	return n
}
