package spawn

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
templates:
  - id: 10
    name: Wolf
    faction: beasts
    max_hp: 200
    bounds_width: 16
    aggro_range: 300
    attack_range: 40
    move_speed: 120
    attack_delay_ms: 1200
    attack_power: 35
    respawn_delay: 30
spawns:
  - id: 1
    template_id: 10
    x: 100
    y: 200
    z: -30
    heading: 1024
    respawn: true
    wander_radius: 150
units:
  - template_id: 10
    faction: humans
    x: 400
    y: 200
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, testSeed))
	require.NoError(t, err)

	require.Len(t, seed.Templates, 1)
	require.Len(t, seed.Spawns, 1)
	require.Len(t, seed.Units, 1)

	tmpl := seed.Templates[0].Template()
	assert.Equal(t, int32(10), tmpl.TemplateID())
	assert.Equal(t, "beasts", tmpl.Faction())
	assert.Equal(t, int64(1200), tmpl.AttackDelay())
	assert.InDelta(t, 600, tmpl.ChaseRange(), 1e-9, "defaults to twice the aggro range")

	sp := seed.Spawns[0].Spawn()
	assert.Equal(t, int32(1), sp.MaximumCount(), "count defaults to 1")
	assert.True(t, sp.DoRespawn())
	assert.InDelta(t, 150, sp.WanderRadius(), 1e-9)
	assert.Equal(t, int32(-30), sp.Location().Z)
	assert.Equal(t, uint16(1024), sp.Location().Heading)

	assert.Equal(t, "humans", seed.Units[0].Faction)
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSeed(writeSeed(t, "templates: [this is: not valid"))
	assert.Error(t, err)
}

func TestSeed_Repositories(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, testSeed))
	require.NoError(t, err)

	templates, spawns := seed.Repositories()

	tmpl, err := templates.LoadTemplate(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Wolf", tmpl.Name())

	_, err = templates.LoadTemplate(context.Background(), 11)
	assert.Error(t, err)

	all, err := spawns.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int32(10), all[0].TemplateID())
}

// The shipped example world must load and spawn cleanly.
func TestSeed_ExampleWorld(t *testing.T) {
	seed, err := LoadSeed(filepath.Join("..", "..", "config", "seed.yaml"))
	require.NoError(t, err)

	h := newHarness(t)
	templates, spawns := seed.Repositories()
	h.manager = NewManager(templates, spawns, h.world, h.ai, h.manager.env)

	require.NoError(t, h.manager.LoadSpawns(context.Background()))
	require.NoError(t, h.manager.SpawnAll(context.Background()))
	assert.Equal(t, 9, h.ai.Count())

	placed, err := NewSimpleSpawner(templates, h.world).PlaceSeedUnits(context.Background(), seed)
	require.NoError(t, err)
	assert.Len(t, placed, 1)
	assert.Equal(t, 10, h.world.UnitCount())
}
