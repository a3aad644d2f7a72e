package world

import (
	"sync"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// Mover moves one entity in a straight line toward its destination.
// It implements ai.Navigator. Obstacles are not avoided; it is a kinematic
// stand-in for a navmesh agent.
type Mover struct {
	world *World
	body  *model.Entity

	mu      sync.Mutex
	dest    model.Vec3
	speed   float64
	pending bool
}

func newMover(w *World, e *model.Entity) *Mover {
	return &Mover{world: w, body: e, dest: e.Position()}
}

// SetDestination sets a new goal. The path stays pending until the next Step.
func (m *Mover) SetDestination(pos model.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dest = pos
	m.pending = true
}

// SetSpeed sets movement speed in units per second.
func (m *Mover) SetSpeed(speed float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = max(speed, 0)
}

// Destination returns the current goal.
func (m *Mover) Destination() model.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dest
}

// RemainingDistance returns the straight-line distance left.
func (m *Mover) RemainingDistance() float64 {
	m.mu.Lock()
	dest := m.dest
	m.mu.Unlock()
	return m.body.Position().Distance(dest)
}

// IsPathPending reports whether a new destination has not been processed yet.
func (m *Mover) IsPathPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// HasValidSurface reports whether the body is still in the world.
func (m *Mover) HasValidSurface() bool {
	return m.world.Has(m.body.ID())
}

// Warp teleports the body and stops it there.
func (m *Mover) Warp(pos model.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body.SetPosition(pos)
	m.dest = pos
	m.pending = false
}

// Stop halts the body where it stands: destination becomes the current
// position, speed drops to 0 and no path is pending.
func (m *Mover) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dest = m.body.Position()
	m.speed = 0
	m.pending = false
}

// Speed returns the current movement speed.
func (m *Mover) Speed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

// Step moves the body toward the destination by speed*dt.
func (m *Mover) Step(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = false
	if dt <= 0 || m.speed == 0 {
		return
	}
	pos := m.body.Position()
	m.body.SetPosition(pos.MoveTowards(m.dest, m.speed*dt.Seconds()))
}
