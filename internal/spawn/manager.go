package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/udisondev/npcbrain/internal/ai"
	"github.com/udisondev/npcbrain/internal/model"
	"github.com/udisondev/npcbrain/internal/world"
)

// DefaultAIType drives units whose template names no behavior.
const DefaultAIType = "aggressive_wander"

// ErrNotSpawnable is returned for behavior kinds that cannot be a unit's top-level behavior.
var ErrNotSpawnable = errors.New("behavior kind cannot drive a spawned unit")

// TemplateRepository loads unit templates.
type TemplateRepository interface {
	LoadTemplate(ctx context.Context, templateID int32) (*model.UnitTemplate, error)
}

// SpawnRepository loads spawn points.
type SpawnRepository interface {
	LoadAll(ctx context.Context) ([]*model.Spawn, error)
}

// Manager spawns units, binds their brains and despawns them on death.
type Manager struct {
	spawns     sync.Map // map[int64]*model.Spawn (spawnID → spawn)
	prototypes sync.Map // map[int64]ai.Behavior (spawnID → behavior prototype)
	templates  TemplateRepository
	spawnRepo  SpawnRepository
	world      *world.World
	aiManager  *ai.TickManager
	env        *ai.Env
	ids        *world.ObjectIDGenerator
	respawns   *RespawnTaskManager

	spawnCount atomic.Int32 // cached count of spawns (O(1) access)
}

// NewManager creates a spawn manager. Brains of spawned units share env.
func NewManager(
	templates TemplateRepository,
	spawnRepo SpawnRepository,
	w *world.World,
	aiManager *ai.TickManager,
	env *ai.Env,
) *Manager {
	return &Manager{
		templates: templates,
		spawnRepo: spawnRepo,
		world:     w,
		aiManager: aiManager,
		env:       env,
		ids:       world.NewObjectIDGenerator(),
	}
}

// SetRespawnManager enables respawn scheduling on death.
func (m *Manager) SetRespawnManager(r *RespawnTaskManager) {
	m.respawns = r
}

// LoadSpawns loads all spawns from the repository.
func (m *Manager) LoadSpawns(ctx context.Context) error {
	spawns, err := m.spawnRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}

	for _, s := range spawns {
		m.AddSpawn(s)
	}

	slog.Info("spawns loaded", "count", len(spawns))
	return nil
}

// AddSpawn registers a spawn point.
func (m *Manager) AddSpawn(s *model.Spawn) {
	if _, loaded := m.spawns.Swap(s.SpawnID(), s); !loaded {
		m.spawnCount.Add(1)
	} else if m.respawns != nil {
		// The queued refill points at the replaced spawn.
		m.respawns.CancelRespawn(s.SpawnID())
	}
	m.prototypes.Delete(s.SpawnID())
}

// DoSpawn spawns one unit at the spawn point, registers it in the world
// and starts its brain with a behavior cloned from the spawn's prototype.
func (m *Manager) DoSpawn(ctx context.Context, spawn *model.Spawn) (*model.Unit, error) {
	if spawn.CurrentCount() >= spawn.MaximumCount() {
		return nil, fmt.Errorf("spawn %d is full (%d/%d)", spawn.SpawnID(), spawn.CurrentCount(), spawn.MaximumCount())
	}

	template, err := m.templates.LoadTemplate(ctx, spawn.TemplateID())
	if err != nil {
		return nil, fmt.Errorf("loading template %d for spawn %d: %w", spawn.TemplateID(), spawn.SpawnID(), err)
	}

	proto, err := m.prototype(spawn, template)
	if err != nil {
		return nil, fmt.Errorf("building behavior for spawn %d: %w", spawn.SpawnID(), err)
	}

	objectID := m.ids.NextNpcID()
	unit := model.NewUnit(objectID, template, spawn.Location())
	unit.SetSpawn(spawn)

	spawn.AddUnit(unit)
	if err := m.world.AddUnit(unit); err != nil {
		spawn.RemoveUnit(unit)
		return nil, fmt.Errorf("adding unit to world: %w", err)
	}

	brain := ai.NewBrain(m.env, objectID)
	brain.SetBehavior(proto.Clone(brain, objectID))
	m.aiManager.Register(objectID, brain)

	slog.Info("unit spawned",
		"objectID", objectID,
		"name", unit.Name(),
		"templateID", template.TemplateID(),
		"spawnID", spawn.SpawnID(),
		"behavior", proto.Kind())

	return unit, nil
}

// DespawnUnit stops the unit's brain and removes it from the world and its spawn.
func (m *Manager) DespawnUnit(unit *model.Unit) {
	m.aiManager.Unregister(unit.ObjectID())
	m.world.RemoveUnit(unit.ObjectID())

	spawn := unit.Spawn()
	if spawn == nil {
		slog.Warn("despawning unit without spawn", "objectID", unit.ObjectID())
		return
	}
	spawn.RemoveUnit(unit)

	slog.Info("unit despawned",
		"objectID", unit.ObjectID(),
		"name", unit.Name(),
		"spawnID", spawn.SpawnID())
}

// HandleDeath despawns a dead unit and schedules its respawn when the
// spawn point asks for one.
func (m *Manager) HandleDeath(unit *model.Unit) {
	m.DespawnUnit(unit)

	spawn := unit.Spawn()
	if spawn == nil || !spawn.DoRespawn() || m.respawns == nil {
		return
	}
	m.respawns.ScheduleRespawn(spawn, CalculateRespawnDelay(unit.Template()))
}

// GetSpawn returns spawn by ID.
func (m *Manager) GetSpawn(spawnID int64) (*model.Spawn, bool) {
	value, ok := m.spawns.Load(spawnID)
	if !ok {
		return nil, false
	}
	return value.(*model.Spawn), true
}

// SpawnCount returns the number of registered spawn points.
func (m *Manager) SpawnCount() int {
	return int(m.spawnCount.Load())
}

// SpawnAll fills every registered spawn point up to its maximum count.
func (m *Manager) SpawnAll(ctx context.Context) error {
	count := 0
	var firstErr error

	m.spawns.Range(func(key, value any) bool {
		spawn := value.(*model.Spawn)

		for spawn.CurrentCount() < spawn.MaximumCount() {
			if _, err := m.DoSpawn(ctx, spawn); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				slog.Error("failed to spawn unit",
					"spawnID", spawn.SpawnID(),
					"templateID", spawn.TemplateID(),
					"error", err)
				return true // continue with next spawn
			}
			count++
		}

		return true
	})

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning all units: %w", firstErr)
	}

	slog.Info("all units spawned", "count", count)
	return nil
}

// prototype returns the behavior every unit of spawn is cloned from,
// building it on first use.
func (m *Manager) prototype(spawn *model.Spawn, template *model.UnitTemplate) (ai.Behavior, error) {
	if v, ok := m.prototypes.Load(spawn.SpawnID()); ok {
		return v.(ai.Behavior), nil
	}

	name := template.AIType()
	if name == "" {
		name = DefaultAIType
	}
	kind, err := ai.ParseKind(name)
	if err != nil {
		return nil, err
	}
	if kind == ai.KindAttack {
		return nil, fmt.Errorf("%w: %s", ErrNotSpawnable, kind)
	}
	bh, err := ai.NewBehavior(kind)
	if err != nil {
		return nil, err
	}
	if h, ok := bh.(ai.Homed); ok {
		h.SetHome(spawn.Location(), spawn.WanderRadius())
	}

	actual, _ := m.prototypes.LoadOrStore(spawn.SpawnID(), bh)
	return actual.(ai.Behavior), nil
}

// CalculateRespawnDelay returns the template's respawn delay in seconds
// with up to 10% random jitter added.
func CalculateRespawnDelay(template *model.UnitTemplate) int32 {
	delay := template.RespawnDelay()
	if delay <= 0 {
		return 0
	}
	return delay + rand.Int32N(delay/10+1)
}
