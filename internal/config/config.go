package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the NPC brain server.
type Server struct {
	// Logging: debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Seed is a YAML world file. When set, templates and spawns are read
	// from it and the database is not used.
	Seed string `yaml:"seed"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// AI tunables
	AI AI `yaml:"ai"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// AI holds behavior engine tunables.
type AI struct {
	// TickInterval is the fixed simulation step driving every brain.
	TickInterval time.Duration `yaml:"tick_interval"`

	// BehaviorUpdate is the aggro re-evaluation throttle window.
	BehaviorUpdate time.Duration `yaml:"behavior_update"`

	// HelpRadius is the broadcast radius of a call for help.
	HelpRadius float64 `yaml:"help_radius"`

	// WanderPeriod is how long a wandering unit keeps a waypoint.
	WanderPeriod time.Duration `yaml:"wander_period"`

	// WanderRadius is the default roaming radius around home.
	WanderRadius float64 `yaml:"wander_radius"`

	// ChaseTime abandons an engagement that lands no strike for this long.
	ChaseTime time.Duration `yaml:"chase_time"`

	// ReactiveAggro enables aggro on being damaged and on ally assist calls.
	ReactiveAggro bool `yaml:"reactive_aggro"`
}

// DefaultAI returns AI tunables with stock values.
func DefaultAI() AI {
	return AI{
		TickInterval:   100 * time.Millisecond,
		BehaviorUpdate: 500 * time.Millisecond,
		HelpRadius:     500,
		WanderPeriod:   8 * time.Second,
		WanderRadius:   300,
		ChaseTime:      10 * time.Second,
		ReactiveAggro:  false,
	}
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "npcbrain",
			Password: "npcbrain",
			DBName:   "npcbrain",
			SSLMode:  "disable",
		},
		AI: DefaultAI(),
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.AI.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects tunables the tick loop cannot run with.
func (a AI) Validate() error {
	if a.TickInterval <= 0 {
		return fmt.Errorf("ai.tick_interval must be positive, got %s", a.TickInterval)
	}
	if a.BehaviorUpdate < 0 {
		return fmt.Errorf("ai.behavior_update must not be negative, got %s", a.BehaviorUpdate)
	}
	if a.HelpRadius < 0 {
		return fmt.Errorf("ai.help_radius must not be negative, got %v", a.HelpRadius)
	}
	return nil
}
