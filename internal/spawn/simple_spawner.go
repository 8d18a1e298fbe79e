package spawn

import (
	"context"
	"fmt"

	"github.com/udisondev/npcbrain/internal/model"
	"github.com/udisondev/npcbrain/internal/world"
)

// SimpleSpawner places brainless units into the world: player avatars,
// training dummies and other targets that the AI reacts to but does not drive.
type SimpleSpawner struct {
	templates TemplateRepository
	world     *world.World
	ids       *world.ObjectIDGenerator
}

// NewSimpleSpawner creates a simple spawner
func NewSimpleSpawner(templates TemplateRepository, w *world.World) *SimpleSpawner {
	return &SimpleSpawner{
		templates: templates,
		world:     w,
		ids:       world.NewObjectIDGenerator(),
	}
}

// PlaceUnit adds a unit of templateID at loc. A non-empty faction
// overrides the template's.
func (s *SimpleSpawner) PlaceUnit(ctx context.Context, templateID int32, faction string, loc model.Location) (*model.Unit, error) {
	template, err := s.templates.LoadTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("loading template %d: %w", templateID, err)
	}

	unit := model.NewUnit(s.ids.NextPlayerID(), template, loc)
	if faction != "" {
		unit.SetFaction(faction)
	}

	if err := s.world.AddUnit(unit); err != nil {
		return nil, fmt.Errorf("placing unit %d: %w", unit.ObjectID(), err)
	}
	return unit, nil
}

// PlaceSeedUnits places every unit listed in seed.
func (s *SimpleSpawner) PlaceSeedUnits(ctx context.Context, seed *Seed) ([]*model.Unit, error) {
	units := make([]*model.Unit, 0, len(seed.Units))
	for _, us := range seed.Units {
		u, err := s.PlaceUnit(ctx, us.TemplateID, us.Faction, model.NewLocation(us.X, us.Y, us.Z, 0))
		if err != nil {
			return units, err
		}
		units = append(units, u)
	}
	return units, nil
}
