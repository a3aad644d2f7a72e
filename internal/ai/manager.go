package ai

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// TickManager manages AI ticks for all registered agents
type TickManager struct {
	mu          sync.Mutex
	controllers map[model.EntityID]Controller
	order       []model.EntityID // registration order, ticks are deterministic
}

// NewTickManager creates new AI tick manager
func NewTickManager() *TickManager {
	return &TickManager{
		controllers: make(map[model.EntityID]Controller),
	}
}

// Register registers and starts a controller. Re-registering an ID replaces
// (and stops) the previous controller.
func (m *TickManager) Register(id model.EntityID, controller Controller) {
	m.mu.Lock()
	prev, exists := m.controllers[id]
	m.controllers[id] = controller
	if !exists {
		m.order = append(m.order, id)
	}
	m.mu.Unlock()

	if exists && prev != controller {
		prev.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"id", id,
		"state", controller.State())
}

// Unregister stops and removes a controller
func (m *TickManager) Unregister(id model.EntityID) {
	m.mu.Lock()
	controller, ok := m.controllers[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.controllers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	controller.Stop()

	slog.Debug("AI controller unregistered", "id", id)
}

// TickAll ticks every registered controller once, in registration order.
// Controllers may register or unregister (themselves included) while ticking;
// changes apply from the next TickAll.
func (m *TickManager) TickAll(dt time.Duration) int {
	m.mu.Lock()
	batch := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		batch = append(batch, m.controllers[id])
	}
	m.mu.Unlock()

	for _, c := range batch {
		c.Tick(dt)
	}

	if len(batch) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(batch), "dt", dt)
	}
	return len(batch)
}

// Count returns number of registered controllers
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// GetController returns controller for an entity
func (m *TickManager) GetController(id model.EntityID) (Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.controllers[id]
	if !ok {
		return nil, fmt.Errorf("controller not found for entity %d", id)
	}
	return c, nil
}
