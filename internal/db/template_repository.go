package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/npcbrain/internal/model"
)

// ErrTemplateNotFound is returned when no unit template has the requested ID.
var ErrTemplateNotFound = errors.New("unit template not found")

const templateColumns = `template_id, name, faction, ai_type, max_hp, bounds_width,
       aggro_range, chase_range, attack_range, move_speed,
       attack_delay, attack_power, respawn_delay`

// TemplateRepository handles unit template persistence.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// LoadTemplate loads a unit template by ID.
func (r *TemplateRepository) LoadTemplate(ctx context.Context, id int32) (*model.UnitTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM unit_templates WHERE template_id = $1`

	t, err := scanTemplate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading unit template %d: %w", id, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("loading unit template %d: %w", id, err)
	}
	return t, nil
}

// LoadAllTemplates loads every unit template ordered by ID.
func (r *TemplateRepository) LoadAllTemplates(ctx context.Context) ([]*model.UnitTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM unit_templates ORDER BY template_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading all unit templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*model.UnitTemplate, 0, 32)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unit template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit template rows: %w", err)
	}

	return templates, nil
}

// Upsert inserts or replaces a unit template.
func (r *TemplateRepository) Upsert(ctx context.Context, t *model.UnitTemplate) error {
	query := `
		INSERT INTO unit_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (template_id) DO UPDATE SET
			name = EXCLUDED.name,
			faction = EXCLUDED.faction,
			ai_type = EXCLUDED.ai_type,
			max_hp = EXCLUDED.max_hp,
			bounds_width = EXCLUDED.bounds_width,
			aggro_range = EXCLUDED.aggro_range,
			chase_range = EXCLUDED.chase_range,
			attack_range = EXCLUDED.attack_range,
			move_speed = EXCLUDED.move_speed,
			attack_delay = EXCLUDED.attack_delay,
			attack_power = EXCLUDED.attack_power,
			respawn_delay = EXCLUDED.respawn_delay
	`

	_, err := r.pool.Exec(ctx, query,
		t.TemplateID(),
		t.Name(),
		t.Faction(),
		t.AIType(),
		t.MaxHP(),
		t.BoundsWidth(),
		t.AggroRange(),
		t.ChaseRange(),
		t.AttackRange(),
		t.MoveSpeed(),
		t.AttackDelay(),
		t.AttackPower(),
		t.RespawnDelay(),
	)
	if err != nil {
		return fmt.Errorf("upserting unit template %d: %w", t.TemplateID(), err)
	}
	return nil
}

func scanTemplate(row pgx.Row) (*model.UnitTemplate, error) {
	var p model.TemplateParams
	err := row.Scan(
		&p.TemplateID, &p.Name, &p.Faction, &p.AIType, &p.MaxHP, &p.BoundsWidth,
		&p.AggroRange, &p.ChaseRange, &p.AttackRange, &p.MoveSpeed,
		&p.AttackDelay, &p.AttackPower, &p.RespawnDelay,
	)
	if err != nil {
		return nil, err
	}
	return model.NewUnitTemplate(p), nil
}
