package model

import (
	"time"

	"github.com/google/uuid"
)

// CombatEventKind classifies a CombatEvent.
type CombatEventKind string

const (
	EventDamage  CombatEventKind = "damage"
	EventDeath   CombatEventKind = "death"
	EventRespawn CombatEventKind = "respawn"
)

// CombatEvent is a persisted record of something that happened to an entity.
type CombatEvent struct {
	ID        uuid.UUID
	Kind      CombatEventKind
	Victim    EntityID
	Source    EntityID
	Amount    float64
	Remaining float64
	At        time.Time
}

// NewCombatEvent creates an event with a fresh ID stamped at now.
func NewCombatEvent(kind CombatEventKind, victim, source EntityID, amount, remaining float64, now time.Time) CombatEvent {
	return CombatEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Victim:    victim,
		Source:    source,
		Amount:    amount,
		Remaining: remaining,
		At:        now,
	}
}
