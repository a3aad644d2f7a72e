package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/fpscore/internal/model"
)

// DoorID identifies a door within one World. IDs start at 1.
type DoorID int32

// NoDoor is the zero DoorID.
const NoDoor DoorID = 0

// ErrUnknownDoor is returned for IDs that were never added.
var ErrUnknownDoor = errors.New("unknown door")

// door is a box that blocks sight and shots only while closed.
type door struct {
	box  Box
	open bool
}

// AddDoor adds a door occupying b and returns its ID.
func (w *World) AddDoor(b Box, open bool) DoorID {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doors = append(w.doors, door{box: b, open: open})
	return DoorID(len(w.doors))
}

// DoorCount returns number of doors.
func (w *World) DoorCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.doors)
}

// IsDoorOpen reports the door state. ok is false for unknown IDs.
func (w *World) IsDoorOpen(id DoorID) (open, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if id <= NoDoor || int(id) > len(w.doors) {
		return false, false
	}
	return w.doors[id-1].open, true
}

// ToggleDoor flips the door and returns its new state.
func (w *World) ToggleDoor(id DoorID) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id <= NoDoor || int(id) > len(w.doors) {
		return false, fmt.Errorf("toggling door %d: %w", id, ErrUnknownDoor)
	}
	d := &w.doors[id-1]
	d.open = !d.open

	slog.Debug("door toggled", "door", id, "open", d.open)
	return d.open, nil
}

// DoorInSight returns the door the ray hits first within maxDist.
// Open doors still catch the ray so they can be closed again; an obstacle or
// live entity in front of the door hides it. exclude is skipped.
func (w *World) DoorInSight(origin, dir model.Vec3, maxDist float64, exclude model.EntityID) (DoorID, bool) {
	dir = dir.Normalize()
	if dir == (model.Vec3{}) || maxDist <= 0 {
		return NoDoor, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	best, found := math.Inf(1), NoDoor
	for i, d := range w.doors {
		if t, ok := d.box.intersectRay(origin, dir, maxDist); ok && t < best {
			best, found = t, DoorID(i+1)
		}
	}
	if found == NoDoor {
		return NoDoor, false
	}

	for _, b := range w.obstacles {
		if t, ok := b.intersectRay(origin, dir, best); ok && t < best {
			return NoDoor, false
		}
	}
	for _, id := range w.order {
		e := w.entities[id]
		if id == exclude || e.Radius() <= 0 || !e.IsAlive() {
			continue
		}
		if t, ok := intersectSphere(origin, dir, e.Position(), e.Radius(), best); ok && t < best {
			return NoDoor, false
		}
	}
	return found, true
}
