package world

import (
	"sync"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// patrolArrive is how close a patrol must get to an end before turning around.
const patrolArrive = 0.1

// Patrol ping-pongs a body along an axis between start-axis*distance and
// start+axis*distance. Unlike Mover it needs no AI: World.Step drives it.
type Patrol struct {
	body  *model.Entity
	start model.Vec3
	axis  model.Vec3
	dist  float64
	speed float64

	mu      sync.Mutex
	forward bool
}

// NewPatrol creates and registers a patrol for an entity already in the world.
// reverse makes the first leg head toward the negative end.
func (w *World) NewPatrol(e *model.Entity, axis model.Vec3, distance, speed float64, reverse bool) *Patrol {
	p := &Patrol{
		body:    e,
		start:   e.Position(),
		axis:    axis.Normalize(),
		dist:    max(distance, 0),
		speed:   max(speed, 0),
		forward: !reverse,
	}
	w.mu.Lock()
	w.patrols[e.ID()] = p
	w.mu.Unlock()
	return p
}

// Target returns the end the body is currently heading to.
func (p *Patrol) Target() model.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target()
}

func (p *Patrol) target() model.Vec3 {
	if p.forward {
		return p.start.Add(p.axis.Scale(p.dist))
	}
	return p.start.Sub(p.axis.Scale(p.dist))
}

// Forward reports whether the body is heading to the positive end.
func (p *Patrol) Forward() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forward
}

// Step moves the body toward the current end and turns around on arrival.
func (p *Patrol) Step(dt time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dt <= 0 || p.speed == 0 || p.dist == 0 {
		return
	}
	target := p.target()
	pos := p.body.Position().MoveTowards(target, p.speed*dt.Seconds())
	p.body.SetPosition(pos)
	if pos.Distance(target) < patrolArrive {
		p.forward = !p.forward
	}
}
