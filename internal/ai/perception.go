package ai

import (
	"log/slog"

	"github.com/udisondev/fpscore/internal/model"
)

// Perception is what the agent knows about its target for one tick.
// The zero value means "no target".
type Perception struct {
	Present        bool
	Target         model.EntityID
	TargetPosition model.Vec3
	HasLineOfSight bool
	Distance       float64
}

// qualifies reports whether p is enough to start a chase.
func (p Perception) qualifies(sightDistance float64) bool {
	return p.Present && p.HasLineOfSight && p.Distance <= sightDistance
}

// Sensor samples perception for an agent standing at self.
type Sensor interface {
	Sense(self model.Vec3, eyeHeight float64) Perception
}

// WorldSensor perceives the entity with a given role through a WorldQuery.
// The target reference is resolved once and kept until it becomes unavailable
// (removed from the world or dead). Nothing else carries over between ticks.
type WorldSensor struct {
	world  WorldQuery
	role   model.Role
	target *model.Entity
}

// NewWorldSensor creates a sensor tracking the entity with the given role.
func NewWorldSensor(world WorldQuery, role model.Role) *WorldSensor {
	return &WorldSensor{world: world, role: role}
}

// NewWorldSensorFor creates a sensor bound to an explicit target reference.
// If the reference goes away the sensor falls back to role lookup.
func NewWorldSensorFor(world WorldQuery, target *model.Entity) *WorldSensor {
	return &WorldSensor{world: world, role: target.Role(), target: target}
}

// Target returns the currently tracked entity or nil.
func (s *WorldSensor) Target() *model.Entity {
	return s.target
}

// Sense implements Sensor.
// The sight line runs between points raised by eyeHeight on both ends so the
// floor never occludes it.
func (s *WorldSensor) Sense(self model.Vec3, eyeHeight float64) Perception {
	target := s.resolve()
	if target == nil {
		return Perception{}
	}

	pos := target.Position()
	p := Perception{
		Present:        true,
		Target:         target.ID(),
		TargetPosition: pos,
		Distance:       self.Distance(pos),
	}

	if _, blocked := s.world.LineOfSight(self.Raised(eyeHeight), pos.Raised(eyeHeight)); !blocked {
		p.HasLineOfSight = true
	}
	return p
}

func (s *WorldSensor) resolve() *model.Entity {
	if s.target != nil && s.target.IsAlive() && s.world.Has(s.target.ID()) {
		return s.target
	}

	s.target = nil
	found, ok := s.world.FindEntityByRole(s.role)
	if !ok || !found.IsAlive() {
		return nil
	}
	s.target = found

	if IsDebugEnabled() {
		slog.Debug("sensor resolved target",
			"role", s.role,
			"targetID", found.ID())
	}
	return found
}
