package world

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// World is the in-memory scene: entity registry, static obstacles and movers.
// It implements ai.WorldQuery and combat.Raycaster.
type World struct {
	mu        sync.RWMutex
	entities  map[model.EntityID]*model.Entity
	order     []model.EntityID // insertion order, lookups are deterministic
	obstacles []Box
	doors     []door // index+1 = DoorID
	movers    map[model.EntityID]*Mover
	patrols   map[model.EntityID]*Patrol
	ids       *IDGenerator
}

// New creates an empty world.
func New() *World {
	return &World{
		entities: make(map[model.EntityID]*model.Entity),
		movers:   make(map[model.EntityID]*Mover),
		patrols:  make(map[model.EntityID]*Patrol),
		ids:      NewIDGenerator(),
	}
}

// NextID returns a fresh entity ID for role.
func (w *World) NextID(role model.Role) model.EntityID {
	return w.ids.Next(role)
}

// AddObstacle adds a static box.
func (w *World) AddObstacle(b Box) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.obstacles = append(w.obstacles, b)
}

// Add adds an entity. Returns error on ID collision.
func (w *World) Add(e *model.Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.ID() == model.NoEntity {
		return fmt.Errorf("adding entity %q: zero ID", e.Name())
	}
	if _, exists := w.entities[e.ID()]; exists {
		return fmt.Errorf("adding entity %q: ID %d already in world", e.Name(), e.ID())
	}
	w.entities[e.ID()] = e
	w.order = append(w.order, e.ID())
	return nil
}

// Remove removes an entity with its mover and patrol. Unknown IDs are ignored.
func (w *World) Remove(id model.EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	delete(w.movers, id)
	delete(w.patrols, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	slog.Debug("entity removed from world", "id", id)
}

// Get returns an entity by ID.
func (w *World) Get(id model.EntityID) (*model.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Has reports whether id is in the world.
func (w *World) Has(id model.EntityID) bool {
	_, ok := w.Get(id)
	return ok
}

// Count returns number of entities.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// FindEntityByRole returns the first live entity with role, in insertion order.
func (w *World) FindEntityByRole(role model.Role) (*model.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, id := range w.order {
		e := w.entities[id]
		if e.Role() == role && e.IsAlive() {
			return e, true
		}
	}
	return nil, false
}

// EntitiesByRole returns live entities with role, in insertion order.
func (w *World) EntitiesByRole(role model.Role) []*model.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []*model.Entity
	for _, id := range w.order {
		e := w.entities[id]
		if e.Role() == role && e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// LineOfSight returns the first obstacle or closed door between from and to.
// Entities never block sight.
func (w *World) LineOfSight(from, to model.Vec3) (model.RayHit, bool) {
	seg := to.Sub(from)
	dist := seg.Len()
	if dist == 0 {
		return model.RayHit{}, false
	}
	dir := seg.Scale(1 / dist)

	w.mu.RLock()
	defer w.mu.RUnlock()

	best, hit := w.nearestBlocker(from, dir, dist)
	if !hit {
		return model.RayHit{}, false
	}
	return model.RayHit{Point: from.Add(dir.Scale(best)), Distance: best}, true
}

// Raycast returns the nearest obstacle, closed door or live entity along dir
// within maxDist.
// The exclude entity (usually the shooter) is skipped.
func (w *World) Raycast(origin, dir model.Vec3, maxDist float64, exclude model.EntityID) (model.RayHit, bool) {
	dir = dir.Normalize()
	if dir == (model.Vec3{}) || maxDist <= 0 {
		return model.RayHit{}, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	t, hit := w.nearestBlocker(origin, dir, maxDist)
	best := model.RayHit{Distance: t}

	for _, id := range w.order {
		e := w.entities[id]
		if id == exclude || e.Radius() <= 0 || !e.IsAlive() {
			continue
		}
		if t, ok := intersectSphere(origin, dir, e.Position(), e.Radius(), maxDist); ok && t < best.Distance {
			best = model.RayHit{Distance: t, Entity: id}
			hit = true
		}
	}

	if !hit {
		return model.RayHit{}, false
	}
	best.Point = origin.Add(dir.Scale(best.Distance))
	return best, true
}

// nearestBlocker returns the entry distance of the closest obstacle or closed
// door, +Inf when nothing blocks. Caller holds w.mu.
func (w *World) nearestBlocker(origin, dir model.Vec3, maxDist float64) (float64, bool) {
	best, hit := math.Inf(1), false
	for _, b := range w.obstacles {
		if t, ok := b.intersectRay(origin, dir, maxDist); ok && t < best {
			best, hit = t, true
		}
	}
	for _, d := range w.doors {
		if d.open {
			continue
		}
		if t, ok := d.box.intersectRay(origin, dir, maxDist); ok && t < best {
			best, hit = t, true
		}
	}
	return best, hit
}

// NewMover creates and registers a Mover for an entity already in the world.
func (w *World) NewMover(e *model.Entity) *Mover {
	m := newMover(w, e)
	w.mu.Lock()
	w.movers[e.ID()] = m
	w.mu.Unlock()
	return m
}

// Step advances every mover and patrol by dt.
func (w *World) Step(dt time.Duration) {
	w.mu.RLock()
	batch := make([]*Mover, 0, len(w.movers))
	patrols := make([]*Patrol, 0, len(w.patrols))
	for _, id := range w.order {
		if m, ok := w.movers[id]; ok {
			batch = append(batch, m)
		}
		if p, ok := w.patrols[id]; ok {
			patrols = append(patrols, p)
		}
	}
	w.mu.RUnlock()

	for _, m := range batch {
		m.Step(dt)
	}
	for _, p := range patrols {
		p.Step(dt)
	}
}
