package ai

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// TickManager drives every registered controller at a fixed interval and
// advances the game clock before each round. Controllers tick in ascending
// objectID order, so a round is reproducible for a given world state.
type TickManager struct {
	mu          sync.Mutex
	controllers map[uint32]Controller // objectID → controller
	order       []uint32              // sorted keys of controllers, nil when stale
	beforeStep  []func(now int64)

	clock    *GameClock
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTickManager creates a tick manager stepping clock by interval.
func NewTickManager(clock *GameClock, interval time.Duration) *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
		clock:       clock,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Clock returns the game clock advanced by this manager.
func (m *TickManager) Clock() *GameClock {
	return m.clock
}

// BeforeStep adds a hook run on every Step after the clock advances and
// before any controller ticks. Hooks run in the order they were added.
func (m *TickManager) BeforeStep(hook func(now int64)) {
	m.mu.Lock()
	m.beforeStep = append(m.beforeStep, hook)
	m.mu.Unlock()
}

// Register registers a controller and starts it. A controller already
// registered under objectID is stopped and replaced.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	prev, loaded := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !loaded {
		m.order = nil
	}
	m.mu.Unlock()

	if loaded {
		prev.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"intention", controller.CurrentIntention())
}

// Unregister stops and removes the controller of objectID.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if ok {
		delete(m.controllers, objectID)
		m.order = nil
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}
// Start runs the tick loop until ctx is canceled or Stop is called.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			m.Step()
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Step advances the clock by one interval, runs the BeforeStep hooks and
// ticks all controllers. Start calls it on every tick; tests call it
// directly. A controller unregistered by an earlier tick in the same round
// is skipped.
func (m *TickManager) Step() {
	m.clock.Advance(m.interval)
	now := m.clock.Now()

	m.mu.Lock()
	hooks := m.beforeStep
	m.mu.Unlock()
	for _, hook := range hooks {
		hook(now)
	}

	count := 0
	for _, objectID := range m.snapshotOrder() {
		m.mu.Lock()
		controller, ok := m.controllers[objectID]
		m.mu.Unlock()
		if !ok {
			continue
		}
		controller.Tick()
		count++
	}

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed",
			"controllers", count,
			"now", now)
	}
}

// snapshotOrder returns the sorted controller IDs. The returned slice is
// never modified afterwards; membership changes allocate a new one.
func (m *TickManager) snapshotOrder() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		order := make([]uint32, 0, len(m.controllers))
		for objectID := range m.controllers {
			order = append(order, objectID)
		}
		slices.Sort(order)
		m.order = order
	}
	return m.order
}

// Count returns the number of registered controllers.
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// Brain returns the brain of objectID. Implements BrainLookup.
func (m *TickManager) Brain(objectID uint32) (*Brain, bool) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	brain, ok := controller.(*Brain)
	return brain, ok
}
