package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/udisondev/fpscore/internal/ai"
	"github.com/udisondev/fpscore/internal/config"
	"github.com/udisondev/fpscore/internal/game/combat"
	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/schedule"
	"github.com/udisondev/fpscore/internal/world"
)

// ErrUnknownProfile is returned when a Definition names a missing profile.
var ErrUnknownProfile = errors.New("unknown agent profile")

// EventSink receives combat events (persistence, metrics). Publish must not block.
type EventSink interface {
	Publish(ev model.CombatEvent)
}

// Manager spawns enemies and owns their lifecycle: death, corpse removal, respawn.
type Manager struct {
	world     *world.World
	aiManager *ai.TickManager
	deadlines *schedule.Deadlines
	events    EventSink
	now       func() time.Time

	mu       sync.Mutex
	profiles map[string]config.AgentProfile
	enemies  map[model.EntityID]*Enemy
	order    []model.EntityID
}

// NewManager creates new spawn manager. events may be nil.
func NewManager(
	w *world.World,
	aiManager *ai.TickManager,
	deadlines *schedule.Deadlines,
	profiles map[string]config.AgentProfile,
	events EventSink,
) *Manager {
	return &Manager{
		world:     w,
		aiManager: aiManager,
		deadlines: deadlines,
		events:    events,
		now:       time.Now,
		profiles:  maps.Clone(profiles),
		enemies:   make(map[model.EntityID]*Enemy),
	}
}

// SetProfiles replaces profiles used by subsequent spawns.
func (m *Manager) SetProfiles(profiles map[string]config.AgentProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = maps.Clone(profiles)

	slog.Info("spawn profiles updated", "count", len(profiles))
}

// Profile returns a profile by name.
func (m *Manager) Profile(name string) (config.AgentProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[name]
	return p, ok
}

// SpawnEnemy creates an enemy at def.Position, puts it in the world and
// registers its AI. The enemy perceives the player role.
func (m *Manager) SpawnEnemy(def Definition) (*Enemy, error) {
	profile, ok := m.Profile(def.Profile)
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w: %q", def.Name, ErrUnknownProfile, def.Profile)
	}

	id := m.world.NextID(model.RoleEnemy)
	name := def.Name
	if name == "" {
		name = fmt.Sprintf("%s-%d", def.Profile, id)
	}

	entity := model.NewEntity(id, name, model.RoleEnemy, def.Position, profile.Radius, model.NewHealthPool(profile.MaxHealth))
	if err := m.world.Add(entity); err != nil {
		return nil, fmt.Errorf("spawning %q: %w", name, err)
	}

	mover := m.world.NewMover(entity)
	enemy := &Enemy{
		Def:    def,
		Entity: entity,
		Mover:  mover,
		Melee:  combat.NewMelee(meleeSpec(profile), entity),
	}
	enemy.Agent = ai.NewAgent(entity, aiProfile(profile), mover,
		ai.WithSensor(ai.NewWorldSensor(m.world, model.RolePlayer)))

	enemy.listener = entity.Health().AddListener(model.HealthListenerFuncs{
		Damaged: func(ev model.DamageEvent) {
			m.publish(model.EventDamage, id, ev.Source, ev.Amount, ev.Remaining)
		},
		Died: func(ev model.DeathEvent) {
			m.onDeath(enemy, ev)
		},
	})

	m.mu.Lock()
	m.enemies[id] = enemy
	m.order = append(m.order, id)
	m.mu.Unlock()

	m.aiManager.Register(id, enemy.Agent)

	slog.Info("enemy spawned",
		"id", id,
		"name", name,
		"profile", def.Profile,
		"position", def.Position)

	return enemy, nil
}

// SpawnAll spawns every definition and reports all failures together.
func (m *Manager) SpawnAll(defs []Definition) error {
	var errs []error
	count := 0
	for _, def := range defs {
		if _, err := m.SpawnEnemy(def); err != nil {
			slog.Error("failed to spawn enemy", "name", def.Name, "profile", def.Profile, "error", err)
			errs = append(errs, err)
			continue
		}
		count++
	}

	slog.Info("enemies spawned", "count", count, "failed", len(errs))
	return errors.Join(errs...)
}

// onDeath runs inside the lethal ApplyDamage call.
// The agent is halted immediately; body removal and respawn are deadlines.
func (m *Manager) onDeath(e *Enemy, ev model.DeathEvent) {
	id := e.ID()
	e.deaths++
	m.aiManager.Unregister(id)
	e.Mover.Stop()
	m.publish(model.EventDeath, id, ev.Source, ev.Amount, 0)

	e.corpseID = m.deadlines.AfterNamed("corpse", e.Def.CorpseDelay, func() {
		e.corpseID = 0
		m.world.Remove(id)
		if !e.Def.Respawn {
			m.forget(id)
		}
	})

	if e.Def.Respawn {
		e.respawnID = m.deadlines.AfterNamed("respawn", e.Def.RespawnDelay, func() {
			e.respawnID = 0
			m.respawn(e)
		})
	}

	slog.Info("enemy died",
		"id", id,
		"name", e.Entity.Name(),
		"killer", ev.Source,
		"respawn", e.Def.Respawn)
}

// respawn brings a dead enemy back at its spawn point with the same ID.
func (m *Manager) respawn(e *Enemy) {
	id := e.ID()
	if e.corpseID != 0 {
		m.deadlines.Cancel(e.corpseID)
		e.corpseID = 0
	}

	e.Entity.Health().Revive()
	if !m.world.Has(id) {
		if err := m.world.Add(e.Entity); err != nil {
			slog.Error("respawn failed", "id", id, "error", err)
			return
		}
		e.Mover = m.world.NewMover(e.Entity)
		e.Agent = ai.NewAgent(e.Entity, e.Agent.Profile(), e.Mover,
			ai.WithSensor(ai.NewWorldSensor(m.world, model.RolePlayer)))
	}
	e.Mover.Warp(e.Def.Position)
	e.Agent.Reset()
	e.Melee.Reset()
	m.aiManager.Register(id, e.Agent)

	m.publish(model.EventRespawn, id, model.NoEntity, 0, e.Entity.Health().Current())

	slog.Info("enemy respawned",
		"id", id,
		"name", e.Entity.Name(),
		"position", e.Def.Position)
}

// Despawn removes an enemy for good and cancels any pending corpse or respawn deadline.
func (m *Manager) Despawn(id model.EntityID) bool {
	e, ok := m.Enemy(id)
	if !ok {
		return false
	}

	m.CancelRespawn(id)
	if e.corpseID != 0 {
		m.deadlines.Cancel(e.corpseID)
		e.corpseID = 0
	}
	m.aiManager.Unregister(id)
	m.world.Remove(id)
	e.Entity.Health().RemoveListener(e.listener)
	m.forget(id)

	slog.Info("enemy despawned", "id", id, "name", e.Entity.Name())
	return true
}

// CancelRespawn cancels a scheduled respawn. The corpse is still removed on time.
func (m *Manager) CancelRespawn(id model.EntityID) bool {
	e, ok := m.Enemy(id)
	if !ok || e.respawnID == 0 {
		return false
	}
	m.deadlines.Cancel(e.respawnID)
	e.respawnID = 0
	e.Def.Respawn = false

	slog.Debug("respawn cancelled", "id", id)
	return true
}

// PendingRespawns returns number of enemies waiting to respawn.
func (m *Manager) PendingRespawns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.enemies {
		if e.respawnID != 0 {
			n++
		}
	}
	return n
}

// Enemy returns an enemy by ID.
func (m *Manager) Enemy(id model.EntityID) (*Enemy, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enemies[id]
	return e, ok
}

// Enemies returns all tracked enemies in spawn order (dead ones included until forgotten).
func (m *Manager) Enemies() []*Enemy {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Enemy, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.enemies[id])
	}
	return out
}

// Count returns number of tracked enemies.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enemies)
}

func (m *Manager) forget(id model.EntityID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.enemies, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) publish(kind model.CombatEventKind, victim, source model.EntityID, amount, remaining float64) {
	if m.events == nil {
		return
	}
	m.events.Publish(model.NewCombatEvent(kind, victim, source, amount, remaining, m.now()))
}
