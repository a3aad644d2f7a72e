package testutil

import (
	"sync"

	"github.com/udisondev/fpscore/internal/model"
)

// EventRecorder collects published combat events.
type EventRecorder struct {
	mu     sync.Mutex
	events []model.CombatEvent
}

// Publish implements spawn.EventSink.
func (r *EventRecorder) Publish(ev model.CombatEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of recorded events.
func (r *EventRecorder) Events() []model.CombatEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.CombatEvent(nil), r.events...)
}

// Kinds returns recorded event kinds in order.
func (r *EventRecorder) Kinds() []model.CombatEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CombatEventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}
