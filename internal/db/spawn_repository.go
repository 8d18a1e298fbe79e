package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/npcbrain/internal/model"
)

// ErrSpawnNotFound is returned when no spawn point has the requested ID.
var ErrSpawnNotFound = errors.New("spawn not found")

// spawnRow mirrors one row of the spawns table.
type spawnRow struct {
	SpawnID      int64   `db:"spawn_id"`
	TemplateID   int32   `db:"template_id"`
	X            int32   `db:"x"`
	Y            int32   `db:"y"`
	Z            int32   `db:"z"`
	Heading      int32   `db:"heading"`
	MaximumCount int32   `db:"maximum_count"`
	DoRespawn    bool    `db:"do_respawn"`
	WanderRadius float64 `db:"wander_radius"`
}

func (r spawnRow) spawn() *model.Spawn {
	loc := model.NewLocation(r.X, r.Y, r.Z, uint16(r.Heading))
	return model.NewSpawn(r.SpawnID, r.TemplateID, loc, r.MaximumCount, r.DoRespawn, r.WanderRadius)
}

// SpawnRepository stores spawn points.
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a spawn repository over pool.
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// LoadAll returns every spawn point ordered by ID.
func (r *SpawnRepository) LoadAll(ctx context.Context) ([]*model.Spawn, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM spawns ORDER BY spawn_id`)
	if err != nil {
		return nil, fmt.Errorf("loading all spawns: %w", err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[spawnRow])
	if err != nil {
		return nil, fmt.Errorf("collecting spawn rows: %w", err)
	}

	spawns := make([]*model.Spawn, 0, len(collected))
	for _, row := range collected {
		spawns = append(spawns, row.spawn())
	}
	return spawns, nil
}

// LoadByID returns one spawn point.
func (r *SpawnRepository) LoadByID(ctx context.Context, spawnID int64) (*model.Spawn, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM spawns WHERE spawn_id = $1`, spawnID)
	if err != nil {
		return nil, fmt.Errorf("loading spawn %d: %w", spawnID, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[spawnRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loading spawn %d: %w", spawnID, ErrSpawnNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading spawn %d: %w", spawnID, err)
	}
	return row.spawn(), nil
}

// Create inserts a spawn point and returns its generated ID. The ID held
// by spawn is ignored.
func (r *SpawnRepository) Create(ctx context.Context, spawn *model.Spawn) (int64, error) {
	loc := spawn.Location()
	args := pgx.NamedArgs{
		"template":  spawn.TemplateID(),
		"x":         loc.X,
		"y":         loc.Y,
		"z":         loc.Z,
		"heading":   int32(loc.Heading),
		"max_count": spawn.MaximumCount(),
		"respawn":   spawn.DoRespawn(),
		"radius":    spawn.WanderRadius(),
	}

	var spawnID int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO spawns (template_id, x, y, z, heading, maximum_count, do_respawn, wander_radius)
		VALUES (@template, @x, @y, @z, @heading, @max_count, @respawn, @radius)
		RETURNING spawn_id`, args).Scan(&spawnID)
	if err != nil {
		return 0, fmt.Errorf("creating spawn for template %d: %w", spawn.TemplateID(), err)
	}
	return spawnID, nil
}
