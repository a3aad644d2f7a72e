package testutil

import (
	"sync"

	"github.com/udisondev/fpscore/internal/model"
)

// FakeWorld — in-memory имплементация ai.WorldQuery для unit тестов.
// Line of sight is controlled by the Blocked flag instead of geometry.
type FakeWorld struct {
	mu       sync.Mutex
	entities map[model.EntityID]*model.Entity
	order    []model.EntityID
	Blocked  bool
	Lookups  int
}

// NewFakeWorld creates an empty world.
func NewFakeWorld() *FakeWorld {
	return &FakeWorld{entities: make(map[model.EntityID]*model.Entity)}
}

// Add inserts e.
func (w *FakeWorld) Add(e *model.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[e.ID()]; !ok {
		w.order = append(w.order, e.ID())
	}
	w.entities[e.ID()] = e
}

// Remove deletes an entity.
func (w *FakeWorld) Remove(id model.EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entities, id)
}

// Has reports whether id is present.
func (w *FakeWorld) Has(id model.EntityID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entities[id]
	return ok
}

// FindEntityByRole returns the first live entity with role, in insertion order.
func (w *FakeWorld) FindEntityByRole(role model.Role) (*model.Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Lookups++
	for _, id := range w.order {
		e, ok := w.entities[id]
		if ok && e.Role() == role && e.IsAlive() {
			return e, true
		}
	}
	return nil, false
}

// LineOfSight reports an obstruction halfway when Blocked is set.
func (w *FakeWorld) LineOfSight(from, to model.Vec3) (model.RayHit, bool) {
	if !w.Blocked {
		return model.RayHit{}, false
	}
	mid := from.Add(to.Sub(from).Scale(0.5))
	return model.RayHit{Point: mid, Distance: from.Distance(mid)}, true
}
