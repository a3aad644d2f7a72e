package testutil

import "github.com/udisondev/fpscore/internal/model"

// FakeNavigator — детерминированная имплементация ai.Navigator для unit тестов.
// SetDestination marks the path pending with a non-zero remaining distance;
// tests finish the walk with Arrive.
type FakeNavigator struct {
	Dest      model.Vec3
	Speed     float64
	Remaining float64
	Pending   bool
	Surface   bool
	SetCalls  int
}

// NewFakeNavigator returns a navigator standing on a valid surface.
func NewFakeNavigator() *FakeNavigator {
	return &FakeNavigator{Surface: true}
}

// SetDestination records the goal.
func (n *FakeNavigator) SetDestination(pos model.Vec3) {
	n.Dest = pos
	n.Remaining = 10
	n.Pending = true
	n.SetCalls++
}

// SetSpeed records the speed.
func (n *FakeNavigator) SetSpeed(speed float64) { n.Speed = speed }

// RemainingDistance returns Remaining.
func (n *FakeNavigator) RemainingDistance() float64 { return n.Remaining }

// IsPathPending returns Pending.
func (n *FakeNavigator) IsPathPending() bool { return n.Pending }

// HasValidSurface returns Surface.
func (n *FakeNavigator) HasValidSurface() bool { return n.Surface }

// Arrive finishes the current path.
func (n *FakeNavigator) Arrive() {
	n.Remaining = 0
	n.Pending = false
}

// Resolve clears the pending flag and leaves dist to go.
func (n *FakeNavigator) Resolve(dist float64) {
	n.Remaining = dist
	n.Pending = false
}
