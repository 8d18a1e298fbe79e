package spawn

import (
	"testing"
	"time"

	"github.com/udisondev/npcbrain/internal/ai"
	"github.com/udisondev/npcbrain/internal/config"
	"github.com/udisondev/npcbrain/internal/model"
	"github.com/udisondev/npcbrain/internal/world"
)

const (
	wolfTemplateID  int32 = 1000
	deerTemplateID  int32 = 1002
	dummyTemplateID int32 = 2000
)

func testTemplate(id int32, name, faction, aiType string) *model.UnitTemplate {
	return model.NewUnitTemplate(model.TemplateParams{
		TemplateID:   id,
		Name:         name,
		Faction:      faction,
		AIType:       aiType,
		MaxHP:        100,
		BoundsWidth:  10,
		AggroRange:   300,
		AttackRange:  40,
		MoveSpeed:    100,
		AttackDelay:  1000,
		AttackPower:  10,
		RespawnDelay: 60,
	})
}

type harness struct {
	world     *world.World
	clock     *ai.GameClock
	ai        *ai.TickManager
	templates *MemoryTemplateRepo
	manager   *Manager
}

func newHarness(t *testing.T, spawns ...*model.Spawn) *harness {
	t.Helper()

	w := world.New()
	clock := ai.NewGameClock(0)
	aiMgr := ai.NewTickManager(clock, 100*time.Millisecond)
	env := &ai.Env{
		World:  w,
		Policy: ai.FactionPolicy{},
		Brains: aiMgr,
		Clock:  clock,
		Move:   w.MoveUnit,
		Config: config.DefaultAI(),
	}

	templates := NewMemoryTemplateRepo(
		testTemplate(wolfTemplateID, "Grey Wolf", "beasts", ""),
		testTemplate(deerTemplateID, "Deer", "critters", "wander"),
		testTemplate(dummyTemplateID, "Dummy", "humans", ""),
	)

	return &harness{
		world:     w,
		clock:     clock,
		ai:        aiMgr,
		templates: templates,
		manager:   NewManager(templates, NewMemorySpawnRepo(spawns...), w, aiMgr, env),
	}
}
