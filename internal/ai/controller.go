package ai

import "github.com/udisondev/npcbrain/internal/model"

// Controller is what the TickManager drives once per tick.
type Controller interface {
	// Start starts the controller
	Start()

	// Stop stops the controller and ends whatever it is running
	Stop()

	// SetIntention sets the unit's visible AI mode
	SetIntention(intention model.Intention)

	// CurrentIntention returns the unit's visible AI mode
	CurrentIntention() model.Intention

	// Tick advances the controller by one simulation step
	Tick()
}
