package ai

import "github.com/udisondev/fpscore/internal/model"

// Navigator moves the agent's body. Provided by the host (navmesh, kinematic mover, ...).
type Navigator interface {
	SetDestination(pos model.Vec3)
	SetSpeed(speed float64)
	RemainingDistance() float64
	IsPathPending() bool
	HasValidSurface() bool
}

// WorldQuery is the read-only world view used for perception.
// It must be safe for repeated synchronous reads within one tick.
type WorldQuery interface {
	FindEntityByRole(role model.Role) (*model.Entity, bool)
	Has(id model.EntityID) bool
	// LineOfSight returns the obstruction between from and to, if any.
	LineOfSight(from, to model.Vec3) (model.RayHit, bool)
}
