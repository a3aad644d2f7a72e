package model

import (
	"math"
	"sync"
)

// DamageOutcome is the result of a single ApplyDamage call.
type DamageOutcome int32

const (
	// DamageDamaged - non-lethal hit, one damage notification was sent
	DamageDamaged DamageOutcome = iota
	// DamageDied - lethal hit, one death notification was sent and the pool is terminal
	DamageDied
	// DamageIgnored - pool is already terminal, nothing changed
	DamageIgnored
	// DamageRejected - amount was negative or NaN, nothing changed
	DamageRejected
)

// String returns human-readable outcome name
func (o DamageOutcome) String() string {
	switch o {
	case DamageDamaged:
		return "DAMAGED"
	case DamageDied:
		return "DIED"
	case DamageIgnored:
		return "IGNORED"
	case DamageRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// DamageEvent is delivered on every non-lethal hit.
type DamageEvent struct {
	Amount    float64
	Source    EntityID
	Remaining float64
}

// DeathEvent is delivered exactly once, on the hit that empties the pool.
type DeathEvent struct {
	Amount   float64
	Source   EntityID
	Overkill float64 // damage beyond what was left
}

// HealthListener receives notifications from a HealthPool.
// Calls are synchronous and happen inside the ApplyDamage call that caused them.
type HealthListener interface {
	HealthDamaged(ev DamageEvent)
	HealthDepleted(ev DeathEvent)
}

// HealthListenerFuncs adapts plain functions to HealthListener. Nil fields are skipped.
type HealthListenerFuncs struct {
	Damaged func(ev DamageEvent)
	Died    func(ev DeathEvent)
}

// HealthDamaged implements HealthListener.
func (f HealthListenerFuncs) HealthDamaged(ev DamageEvent) {
	if f.Damaged != nil {
		f.Damaged(ev)
	}
}

// HealthDepleted implements HealthListener.
func (f HealthListenerFuncs) HealthDepleted(ev DeathEvent) {
	if f.Died != nil {
		f.Died(ev)
	}
}

// ListenerID identifies a registration for RemoveListener.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	l  HealthListener
}

// HealthPool — хранилище HP с уведомлениями об уроне и смерти.
// Инвариант: 0 <= current <= max. После смерти пул терминальный до Revive.
type HealthPool struct {
	mu        sync.Mutex
	current   float64
	max       float64
	dead      bool
	nextID    ListenerID
	listeners []listenerEntry
}

// NewHealthPool создаёт пул с current = max. max <= 0 обрезается до 1.
func NewHealthPool(maxHP float64) *HealthPool {
	if maxHP <= 0 || math.IsNaN(maxHP) {
		maxHP = 1
	}
	return &HealthPool{current: maxHP, max: maxHP}
}

// Current возвращает текущее HP.
func (h *HealthPool) Current() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Max возвращает максимальное HP.
func (h *HealthPool) Max() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}

// IsDead reports whether the pool is terminal.
func (h *HealthPool) IsDead() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dead
}

// Fraction возвращает процент текущего HP (0.0 - 1.0).
func (h *HealthPool) Fraction() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current / h.max
}

// AddListener registers l. Delivery order follows registration order.
func (h *HealthPool) AddListener(l HealthListener) ListenerID {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.listeners = append(h.listeners, listenerEntry{id: h.nextID, l: l})
	return h.nextID
}

// RemoveListener unregisters a listener. Unknown IDs are ignored.
func (h *HealthPool) RemoveListener(id ListenerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.listeners {
		if e.id == id {
			h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (h *HealthPool) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// ApplyDamage reduces HP by amount (minimum 0) and notifies listeners.
// Negative and NaN amounts are rejected without touching the pool.
// Listeners run after the lock is released, so they may call back into the pool.
func (h *HealthPool) ApplyDamage(amount float64, source EntityID) DamageOutcome {
	if amount < 0 || math.IsNaN(amount) {
		return DamageRejected
	}

	h.mu.Lock()
	if h.dead {
		h.mu.Unlock()
		return DamageIgnored
	}

	before := h.current
	h.current = max(h.current-amount, 0)
	remaining := h.current
	died := h.current == 0
	if died {
		h.dead = true
	}
	targets := h.snapshotLocked()
	h.mu.Unlock()

	if died {
		ev := DeathEvent{Amount: amount, Source: source, Overkill: amount - before}
		for _, l := range targets {
			l.HealthDepleted(ev)
		}
		return DamageDied
	}

	ev := DamageEvent{Amount: amount, Source: source, Remaining: remaining}
	for _, l := range targets {
		l.HealthDamaged(ev)
	}
	return DamageDamaged
}

// Heal increases HP clamped to max and returns the amount actually restored.
// No-op on a terminal pool or for non-positive amounts.
func (h *HealthPool) Heal(amount float64) float64 {
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dead {
		return 0
	}
	before := h.current
	h.current = min(h.current+amount, h.max)
	return h.current - before
}

// Revive restores a terminal pool to full HP (for respawn). No notification is sent.
func (h *HealthPool) Revive() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dead = false
	h.current = h.max
}

func (h *HealthPool) snapshotLocked() []HealthListener {
	if len(h.listeners) == 0 {
		return nil
	}
	out := make([]HealthListener, len(h.listeners))
	for i, e := range h.listeners {
		out[i] = e.l
	}
	return out
}
