package spawn

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/npcbrain/internal/model"
)

// Seed is a static world description: templates, spawn points and
// brainless units (player avatars, training dummies) placed at startup.
type Seed struct {
	Templates []TemplateSeed `yaml:"templates"`
	Spawns    []SpawnSeed    `yaml:"spawns"`
	Units     []UnitSeed     `yaml:"units"`
}

// TemplateSeed is one unit template entry of a seed file.
type TemplateSeed struct {
	ID           int32   `yaml:"id"`
	Name         string  `yaml:"name"`
	Faction      string  `yaml:"faction"`
	AIType       string  `yaml:"ai_type"`
	MaxHP        int32   `yaml:"max_hp"`
	BoundsWidth  float64 `yaml:"bounds_width"`
	AggroRange   float64 `yaml:"aggro_range"`
	ChaseRange   float64 `yaml:"chase_range"`
	AttackRange  float64 `yaml:"attack_range"`
	MoveSpeed    float64 `yaml:"move_speed"`
	AttackDelay  int64   `yaml:"attack_delay_ms"`
	AttackPower  int32   `yaml:"attack_power"`
	RespawnDelay int32   `yaml:"respawn_delay"`
}

// Template converts the entry to a model template.
func (t TemplateSeed) Template() *model.UnitTemplate {
	return model.NewUnitTemplate(model.TemplateParams{
		TemplateID:   t.ID,
		Name:         t.Name,
		Faction:      t.Faction,
		AIType:       t.AIType,
		MaxHP:        t.MaxHP,
		BoundsWidth:  t.BoundsWidth,
		AggroRange:   t.AggroRange,
		ChaseRange:   t.ChaseRange,
		AttackRange:  t.AttackRange,
		MoveSpeed:    t.MoveSpeed,
		AttackDelay:  t.AttackDelay,
		AttackPower:  t.AttackPower,
		RespawnDelay: t.RespawnDelay,
	})
}

// SpawnSeed is one spawn point entry of a seed file.
type SpawnSeed struct {
	ID           int64   `yaml:"id"`
	TemplateID   int32   `yaml:"template_id"`
	X            int32   `yaml:"x"`
	Y            int32   `yaml:"y"`
	Z            int32   `yaml:"z"`
	Heading      uint16  `yaml:"heading"`
	Count        int32   `yaml:"count"`
	Respawn      bool    `yaml:"respawn"`
	WanderRadius float64 `yaml:"wander_radius"`
}

// Spawn converts the entry to a model spawn. Count defaults to 1.
func (s SpawnSeed) Spawn() *model.Spawn {
	count := s.Count
	if count <= 0 {
		count = 1
	}
	return model.NewSpawn(
		s.ID,
		s.TemplateID,
		model.NewLocation(s.X, s.Y, s.Z, s.Heading),
		count,
		s.Respawn,
		s.WanderRadius,
	)
}

// UnitSeed places a single brainless unit.
type UnitSeed struct {
	TemplateID int32  `yaml:"template_id"`
	Faction    string `yaml:"faction"`
	X          int32  `yaml:"x"`
	Y          int32  `yaml:"y"`
	Z          int32  `yaml:"z"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed %s: %w", path, err)
	}
	return &seed, nil
}

// MemoryTemplateRepo implements TemplateRepository over an in-memory map.
type MemoryTemplateRepo struct {
	mu        sync.RWMutex
	templates map[int32]*model.UnitTemplate
}

// NewMemoryTemplateRepo creates a repository holding templates.
func NewMemoryTemplateRepo(templates ...*model.UnitTemplate) *MemoryTemplateRepo {
	r := &MemoryTemplateRepo{templates: make(map[int32]*model.UnitTemplate, len(templates))}
	for _, t := range templates {
		r.Add(t)
	}
	return r
}

// Add stores or replaces a template.
func (r *MemoryTemplateRepo) Add(t *model.UnitTemplate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.TemplateID()] = t
}

// LoadTemplate implements TemplateRepository.
func (r *MemoryTemplateRepo) LoadTemplate(_ context.Context, templateID int32) (*model.UnitTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("unit template %d not found", templateID)
	}
	return t, nil
}

// MemorySpawnRepo implements SpawnRepository over a fixed list.
type MemorySpawnRepo struct {
	spawns []*model.Spawn
}

// NewMemorySpawnRepo creates a repository returning spawns.
func NewMemorySpawnRepo(spawns ...*model.Spawn) *MemorySpawnRepo {
	return &MemorySpawnRepo{spawns: spawns}
}

// LoadAll implements SpawnRepository.
func (r *MemorySpawnRepo) LoadAll(context.Context) ([]*model.Spawn, error) {
	return r.spawns, nil
}

// Repositories builds in-memory repositories from the seed.
func (s *Seed) Repositories() (*MemoryTemplateRepo, *MemorySpawnRepo) {
	templates := NewMemoryTemplateRepo()
	for _, t := range s.Templates {
		templates.Add(t.Template())
	}
	spawns := make([]*model.Spawn, 0, len(s.Spawns))
	for _, sp := range s.Spawns {
		spawns = append(spawns, sp.Spawn())
	}
	return templates, NewMemorySpawnRepo(spawns...)
}
