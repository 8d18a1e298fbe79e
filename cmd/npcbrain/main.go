package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/npcbrain/internal/ai"
	"github.com/udisondev/npcbrain/internal/config"
	"github.com/udisondev/npcbrain/internal/db"
	"github.com/udisondev/npcbrain/internal/model"
	"github.com/udisondev/npcbrain/internal/spawn"
	"github.com/udisondev/npcbrain/internal/world"
)

const ConfigPath = "config/npcbrain.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("NPCBRAIN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("npcbrain starting",
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.AI.TickInterval,
		"behavior_update", cfg.AI.BehaviorUpdate,
		"reactive_aggro", cfg.AI.ReactiveAggro)

	var (
		templates spawn.TemplateRepository
		spawns    spawn.SpawnRepository
		seed      *spawn.Seed
	)
	if cfg.Seed != "" {
		seed, err = spawn.LoadSeed(cfg.Seed)
		if err != nil {
			return fmt.Errorf("loading seed: %w", err)
		}
		templates, spawns = seed.Repositories()
		slog.Info("seed loaded",
			"path", cfg.Seed,
			"templates", len(seed.Templates),
			"spawns", len(seed.Spawns),
			"units", len(seed.Units))
	} else {
		if _, err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

		templates, spawns = database.Templates(), database.Spawns()
	}

	w := world.New()
	clock := ai.NewGameClock(0)
	aiMgr := ai.NewTickManager(clock, cfg.AI.TickInterval)

	env := &ai.Env{
		World:  w,
		Policy: ai.FactionPolicy{},
		Threat: ai.DefaultHateThreat(),
		Help:   ai.NewFactionHelp(w, aiMgr),
		Brains: aiMgr,
		Clock:  clock,
		Move:   w.MoveUnit,
		Config: cfg.AI,
	}

	spawnMgr := spawn.NewManager(templates, spawns, w, aiMgr, env)
	respawnMgr := spawn.NewRespawnTaskManager(spawnMgr, clock)
	spawnMgr.SetRespawnManager(respawnMgr)
	respawnMgr.Attach(ctx, aiMgr)

	env.Strike = func(attacker, target *model.Unit) {
		if !ai.BasicStrike(attacker, target) {
			return
		}
		slog.Info("unit killed",
			"objectID", target.ObjectID(),
			"name", target.Name(),
			"killerID", attacker.ObjectID())
		if target.Spawn() != nil {
			spawnMgr.HandleDeath(target)
		}
	}

	if err := spawnMgr.LoadSpawns(ctx); err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}
	if err := spawnMgr.SpawnAll(ctx); err != nil {
		slog.Warn("some spawns failed", "error", err)
	}

	if seed != nil {
		placed, err := spawn.NewSimpleSpawner(templates, w).PlaceSeedUnits(ctx, seed)
		if err != nil {
			return fmt.Errorf("placing seed units: %w", err)
		}
		slog.Info("seed units placed", "count", len(placed))
	}

	slog.Info("world populated",
		"units", w.UnitCount(),
		"brains", aiMgr.Count(),
		"spawns", spawnMgr.SpawnCount())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := aiMgr.Start(gctx); err != nil {
			return fmt.Errorf("AI tick manager: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("npcbrain stopped")
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
