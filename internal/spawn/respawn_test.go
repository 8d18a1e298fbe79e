package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/npcbrain/internal/model"
)

func TestRespawnTaskManager_Schedule(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(5 * time.Second)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	spawn := wolfSpawn(1, 1, true)

	rm.ScheduleRespawn(spawn, 30)

	assert.Equal(t, 1, rm.TaskCount())
	task, ok := rm.GetTask(1)
	require.True(t, ok)
	assert.Same(t, spawn, task.Spawn)
	assert.Equal(t, int64(35_000), task.DueAt)

	// A later schedule replaces the earlier one.
	rm.ScheduleRespawn(spawn, 90)
	assert.Equal(t, 1, rm.TaskCount())
	task, _ = rm.GetTask(1)
	assert.Equal(t, int64(95_000), task.DueAt)

	rm.CancelRespawn(1)
	assert.Zero(t, rm.TaskCount())
	rm.CancelRespawn(1)
}

func TestRespawnTaskManager_ProcessDue(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	soon := wolfSpawn(1, 1, true)
	later := model.NewSpawn(2, deerTemplateID, model.NewLocation(16500, 169500, 0, 0), 1, true, 0)

	rm.ScheduleRespawn(soon, 10)
	rm.ScheduleRespawn(later, 120)

	assert.Zero(t, rm.ProcessDue(context.Background(), 9_999))
	assert.Equal(t, 2, rm.TaskCount())

	assert.Equal(t, 1, rm.ProcessDue(context.Background(), 10_000), "due exactly at now")
	assert.Equal(t, int32(1), soon.CurrentCount())
	assert.Zero(t, later.CurrentCount())
	assert.Equal(t, 1, rm.TaskCount())
	assert.Equal(t, 1, h.ai.Count())

	_, ok := rm.GetTask(1)
	assert.False(t, ok)
}

func TestRespawnTaskManager_ProcessDueInDueOrder(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	spawns := []*model.Spawn{
		wolfSpawn(3, 1, true),
		wolfSpawn(1, 1, true),
		wolfSpawn(2, 1, true),
	}
	rm.ScheduleRespawn(spawns[0], 5)
	rm.ScheduleRespawn(spawns[1], 20)
	rm.ScheduleRespawn(spawns[2], 5)

	require.Equal(t, 3, rm.ProcessDue(context.Background(), 60_000))

	// NPC IDs follow spawn order: spawns 2 and 3 (due at 5s), then spawn 1.
	first, second, third := spawns[2].Units()[0], spawns[0].Units()[0], spawns[1].Units()[0]
	assert.Less(t, first.ObjectID(), second.ObjectID())
	assert.Less(t, second.ObjectID(), third.ObjectID())
}

func TestRespawnTaskManager_ProcessDueSkipsFullSpawn(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	spawn := wolfSpawn(1, 1, true)

	_, err := h.manager.DoSpawn(context.Background(), spawn)
	require.NoError(t, err)

	rm.ScheduleRespawn(spawn, 0)
	assert.Zero(t, rm.ProcessDue(context.Background(), 1_000))
	assert.Zero(t, rm.TaskCount())
	assert.Equal(t, int32(1), spawn.CurrentCount())
}

func TestRespawnTaskManager_DeathToRespawn(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	h.manager.SetRespawnManager(rm)
	spawn := wolfSpawn(1, 1, true)

	unit, err := h.manager.DoSpawn(context.Background(), spawn)
	require.NoError(t, err)

	unit.SetCurrentHP(0)
	h.manager.HandleDeath(unit)
	require.Equal(t, 1, rm.TaskCount())

	// Respawn delay is 60s plus up to 10% jitter.
	assert.Zero(t, rm.ProcessDue(context.Background(), 59_999))
	h.clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, rm.ProcessDue(context.Background(), h.clock.Now()))

	units := spawn.Units()
	require.Len(t, units, 1)
	assert.NotEqual(t, unit.ObjectID(), units[0].ObjectID())
	assert.False(t, units[0].IsDead())
	_, ok := h.ai.Brain(units[0].ObjectID())
	assert.True(t, ok)
}

func TestRespawnTaskManager_AttachRefillsBetweenSteps(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	rm.Attach(context.Background(), h.ai)
	spawn := model.NewSpawn(1, deerTemplateID, model.NewLocation(16500, 169500, 0, 0), 1, true, 0)

	// Interval is 100ms: due after the 10th step.
	rm.ScheduleRespawn(spawn, 1)

	for step := 1; step < 10; step++ {
		h.ai.Step()
		require.Zero(t, h.world.UnitCount(), "refilled early at step %d", step)
		require.Equal(t, 1, rm.TaskCount())
	}

	h.ai.Step()
	assert.Equal(t, int64(1000), h.clock.Now())
	assert.Equal(t, 1, h.world.UnitCount())
	assert.Equal(t, int32(1), spawn.CurrentCount())
	assert.Zero(t, rm.TaskCount())

	// Stepping on does not refill again.
	h.ai.Step()
	assert.Equal(t, 1, h.world.UnitCount())
}

func TestRespawnTaskManager_AttachAfterDeath(t *testing.T) {
	h := newHarness(t)
	rm := NewRespawnTaskManager(h.manager, h.clock)
	h.manager.SetRespawnManager(rm)
	rm.Attach(context.Background(), h.ai)
	spawn := model.NewSpawn(1, deerTemplateID, model.NewLocation(16500, 169500, 0, 0), 1, true, 0)

	unit, err := h.manager.DoSpawn(context.Background(), spawn)
	require.NoError(t, err)
	unit.SetCurrentHP(0)
	h.manager.HandleDeath(unit)

	task, ok := rm.GetTask(1)
	require.True(t, ok)
	require.Zero(t, h.world.UnitCount())

	// Nothing reappears while the wall clock runs and the game clock stands.
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.world.UnitCount())

	steps := 0
	for h.clock.Now() < task.DueAt {
		assert.Zero(t, h.world.UnitCount(), "refilled before due at %d", h.clock.Now())
		h.ai.Step()
		steps++
	}
	assert.Equal(t, 1, h.world.UnitCount(), "not refilled after %d steps", steps)
	assert.Equal(t, 1, h.ai.Count())
}
