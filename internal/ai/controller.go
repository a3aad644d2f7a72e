package ai

import (
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// Controller represents a per-frame AI controller
type Controller interface {
	// Start activates the controller
	Start()

	// Stop deactivates the controller and drops pending follow-ups
	Stop()

	// State returns current behavior state
	State() model.AgentState

	// Tick advances the controller by one frame of dt
	Tick(dt time.Duration)
}
