package spawn

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/npcbrain/internal/ai"
	"github.com/udisondev/npcbrain/internal/model"
)

// RespawnTask refills one spawn point once game time reaches DueAt.
type RespawnTask struct {
	Spawn *model.Spawn
	DueAt int64 // game ms
}

// RespawnTaskManager refills spawn points on the game clock. It has no loop
// of its own: Attach hooks ProcessDue into the AI tick, so respawns happen
// between rounds and a paused or stepped simulation respawns in step with
// its brains.
type RespawnTaskManager struct {
	spawnManager *Manager
	clock        ai.Clock

	mu    sync.Mutex
	tasks map[int64]RespawnTask // spawnID → task
}

// NewRespawnTaskManager creates a respawn queue reading time from clock.
func NewRespawnTaskManager(spawnManager *Manager, clock ai.Clock) *RespawnTaskManager {
	return &RespawnTaskManager{
		spawnManager: spawnManager,
		clock:        clock,
		tasks:        make(map[int64]RespawnTask),
	}
}

// Attach runs ProcessDue at the start of every ticks.Step, after the clock
// advances and before any brain ticks.
func (m *RespawnTaskManager) Attach(ctx context.Context, ticks *ai.TickManager) {
	ticks.BeforeStep(func(now int64) {
		m.ProcessDue(ctx, now)
	})
}

// ScheduleRespawn queues spawn for refill delaySeconds of game time from
// now. A later schedule for the same spawn replaces the earlier one.
func (m *RespawnTaskManager) ScheduleRespawn(spawn *model.Spawn, delaySeconds int32) {
	dueAt := m.clock.Now() + int64(delaySeconds)*1000

	m.mu.Lock()
	m.tasks[spawn.SpawnID()] = RespawnTask{Spawn: spawn, DueAt: dueAt}
	m.mu.Unlock()

	if ai.IsDebugEnabled() {
		slog.Debug("respawn scheduled",
			"spawnID", spawn.SpawnID(),
			"templateID", spawn.TemplateID(),
			"delaySeconds", delaySeconds,
			"dueAt", dueAt)
	}
}

// CancelRespawn drops the queued refill of spawnID, if any.
func (m *RespawnTaskManager) CancelRespawn(spawnID int64) {
	m.mu.Lock()
	delete(m.tasks, spawnID)
	m.mu.Unlock()
}

// ProcessDue refills every spawn point due at or before now, earliest
// first, ties by spawn ID. Returns how many units were spawned.
func (m *RespawnTaskManager) ProcessDue(ctx context.Context, now int64) int {
	m.mu.Lock()
	var due []RespawnTask
	for spawnID, task := range m.tasks {
		if task.DueAt <= now {
			due = append(due, task)
			delete(m.tasks, spawnID)
		}
	}
	m.mu.Unlock()

	slices.SortFunc(due, func(a, b RespawnTask) int {
		if c := cmp.Compare(a.DueAt, b.DueAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Spawn.SpawnID(), b.Spawn.SpawnID())
	})

	spawned := 0
	for _, task := range due {
		spawn := task.Spawn
		if spawn.CurrentCount() >= spawn.MaximumCount() {
			continue
		}

		unit, err := m.spawnManager.DoSpawn(ctx, spawn)
		if err != nil {
			slog.Error("respawn failed",
				"spawnID", spawn.SpawnID(),
				"templateID", spawn.TemplateID(),
				"error", err)
			continue
		}
		spawned++

		slog.Info("unit respawned",
			"objectID", unit.ObjectID(),
			"name", unit.Name(),
			"spawnID", spawn.SpawnID())
	}
	return spawned
}

// TaskCount returns the number of queued refills.
func (m *RespawnTaskManager) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// GetTask returns the queued refill of spawnID.
func (m *RespawnTaskManager) GetTask(spawnID int64) (RespawnTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[spawnID]
	return task, ok
}
