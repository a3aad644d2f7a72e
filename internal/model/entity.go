package model

import "sync"

// EntityID — уникальный идентификатор объекта в мире (immutable после создания).
type EntityID uint32

// NoEntity is the zero EntityID. It is never assigned to a live entity.
const NoEntity EntityID = 0

// Role tags an entity for registry lookups (player, enemy, prop).
type Role string

const (
	RolePlayer Role = "player"
	RoleEnemy  Role = "enemy"
	RoleProp   Role = "prop"
)

// Entity — базовый объект мира: ID, роль, позиция и опциональный HealthPool.
type Entity struct {
	id     EntityID
	name   string
	role   Role
	radius float64
	health *HealthPool // nil для неразрушаемых объектов

	mu       sync.RWMutex
	position Vec3
}

// NewEntity создаёт новый объект. health может быть nil.
func NewEntity(id EntityID, name string, role Role, pos Vec3, radius float64, health *HealthPool) *Entity {
	return &Entity{
		id:       id,
		name:     name,
		role:     role,
		radius:   radius,
		health:   health,
		position: pos,
	}
}

// ID returns the entity identifier.
func (e *Entity) ID() EntityID { return e.id }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Role returns the registry role.
func (e *Entity) Role() Role { return e.role }

// Radius returns the hit sphere radius used by raycasts.
func (e *Entity) Radius() float64 { return e.radius }

// Health returns the entity's HealthPool or nil.
func (e *Entity) Health() *HealthPool { return e.health }

// Position возвращает копию координат (value type).
func (e *Entity) Position() Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// SetPosition устанавливает новые координаты.
func (e *Entity) SetPosition(pos Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = pos
}

// IsAlive reports whether the entity has no HealthPool or a non-terminal one.
func (e *Entity) IsAlive() bool {
	return e.health == nil || !e.health.IsDead()
}
