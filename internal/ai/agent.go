package ai

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/schedule"
)

// ErrNavigationMissing is reported when an agent is built without a Navigator.
// Such an agent stays Idle and never moves.
var ErrNavigationMissing = errors.New("ai: navigation capability not bound")

// StateChangeFunc is notified on every state transition (animation flags, audio).
type StateChangeFunc func(agent *Agent, from, to model.AgentState)

// AgentOption configures optional Agent collaborators.
type AgentOption func(*Agent)

// WithSensor attaches a Sensor sampled at the start of every tick.
// Explicit ReportPerception calls take precedence for that tick.
func WithSensor(s Sensor) AgentOption {
	return func(a *Agent) { a.sensor = s }
}

// WithStateListener registers a transition callback.
func WithStateListener(fn StateChangeFunc) AgentOption {
	return func(a *Agent) { a.onStateChange = fn }
}

// Agent implements patrol/pursuit AI.
// State machine: IDLE → WALK (waypoint patrol) → CHASE (pursuit), see Tick.
type Agent struct {
	body      *model.Entity
	profile   Profile
	nav       Navigator
	sensor    Sensor
	deadlines *schedule.Deadlines
	err       error

	isRunning atomic.Bool
	state     atomic.Int32

	waypointIndex int
	idleElapsed   time.Duration
	destination   model.Vec3
	perception    Perception
	reported      bool
	target        model.EntityID

	onStateChange StateChangeFunc
}

// NewAgent creates an Agent for body. A nil nav produces an inert agent whose
// Err returns ErrNavigationMissing; this is logged once and never panics.
func NewAgent(body *model.Entity, profile Profile, nav Navigator, opts ...AgentOption) *Agent {
	a := &Agent{
		body:      body,
		profile:   profile.withDefaults(),
		nav:       nav,
		deadlines: schedule.NewDeadlines(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.destination = body.Position()

	if nav == nil {
		a.err = ErrNavigationMissing
		slog.Warn("agent has no navigation, staying inert",
			"agent", body.Name(),
			"id", body.ID(),
			"error", a.err)
	}

	return a
}

// Start activates the agent in IDLE.
func (a *Agent) Start() {
	a.isRunning.Store(true)
	a.setState(model.StateIdle)

	if IsDebugEnabled() {
		slog.Debug("agent started",
			"agent", a.body.Name(),
			"id", a.body.ID(),
			"waypoints", len(a.profile.Waypoints),
			"sightDistance", a.profile.SightDistance)
	}
}

// Stop deactivates the agent and drops pending deadlines.
func (a *Agent) Stop() {
	a.isRunning.Store(false)
	a.deadlines.Clear()
	a.target = model.NoEntity

	if IsDebugEnabled() {
		slog.Debug("agent stopped",
			"agent", a.body.Name(),
			"id", a.body.ID())
	}
}

// Reset returns the agent to its initial IDLE state at the body's current
// position. Pending deadlines are cancelled in the same call, so no follow-up
// scheduled before the reset can fire after it.
func (a *Agent) Reset() {
	a.deadlines.Clear()
	a.waypointIndex = 0
	a.idleElapsed = 0
	a.perception = Perception{}
	a.reported = false
	a.target = model.NoEntity
	a.setState(model.StateIdle)

	if a.nav != nil {
		a.moveTo(a.body.Position(), a.profile.WalkSpeed)
	}
}

// ID returns the body's entity ID.
func (a *Agent) ID() model.EntityID { return a.body.ID() }

// Body returns the controlled entity.
func (a *Agent) Body() *model.Entity { return a.body }

// Err returns the configuration error that made the agent inert, if any.
func (a *Agent) Err() error { return a.err }

// IsRunning reports whether the agent is started.
func (a *Agent) IsRunning() bool { return a.isRunning.Load() }

// State returns current behavior state.
func (a *Agent) State() model.AgentState {
	return model.AgentState(a.state.Load())
}

// Destination returns the last goal handed to the navigator.
func (a *Agent) Destination() model.Vec3 { return a.destination }

// IdleElapsed returns time spent in the current IDLE period.
func (a *Agent) IdleElapsed() time.Duration { return a.idleElapsed }

// WaypointIndex returns the index of the current patrol waypoint.
func (a *Agent) WaypointIndex() int { return a.waypointIndex }

// Target returns the entity being chased, or NoEntity.
func (a *Agent) Target() model.EntityID { return a.target }

// Profile returns a copy of the agent profile.
func (a *Agent) Profile() Profile { return a.profile }

// Schedule runs fn after delay of agent time. The deadline is cancelled by Reset and Stop.
func (a *Agent) Schedule(delay time.Duration, fn func()) schedule.ID {
	return a.deadlines.After(delay, fn)
}

// Cancel cancels a deadline created by Schedule.
func (a *Agent) Cancel(id schedule.ID) bool {
	return a.deadlines.Cancel(id)
}

// PendingDeadlines returns the number of scheduled follow-ups.
func (a *Agent) PendingDeadlines() int {
	return a.deadlines.Pending()
}

// ReportPerception supplies chase inputs for the next Tick.
func (a *Agent) ReportPerception(p Perception) {
	a.perception = p
	a.reported = true
}

// Tick advances the state machine by dt. Negative dt counts as zero.
//
//	IDLE:  wait IdleDuration, then walk to the next waypoint (none: stay).
//	WALK:  go IDLE on arrival.
//	CHASE: follow the target; leave once it is farther than SightDistance
//	       or gone (WALK with waypoints, IDLE without).
//
// IDLE and WALK enter CHASE when the target is within SightDistance and visible.
func (a *Agent) Tick(dt time.Duration) {
	if a.err != nil || !a.isRunning.Load() {
		return
	}
	dt = max(dt, 0)

	p := a.perception
	if !a.reported && a.sensor != nil {
		p = a.sensor.Sense(a.body.Position(), a.profile.EyeHeight)
	}
	a.perception = Perception{}
	a.reported = false

	switch a.State() {
	case model.StateIdle:
		a.thinkIdle(dt, p)
	case model.StateWalk:
		a.thinkWalk(p)
	case model.StateChase:
		a.thinkChase(p)
	}

	a.deadlines.Advance(dt)
}

func (a *Agent) thinkIdle(dt time.Duration, p Perception) {
	if p.qualifies(a.profile.SightDistance) {
		a.enterChase(p)
		return
	}

	a.idleElapsed += dt
	if a.idleElapsed < a.profile.IdleDuration || len(a.profile.Waypoints) == 0 {
		return
	}

	a.waypointIndex = (a.waypointIndex + 1) % len(a.profile.Waypoints)
	a.enterWalk()
}

func (a *Agent) thinkWalk(p Perception) {
	if p.qualifies(a.profile.SightDistance) {
		a.enterChase(p)
		return
	}

	if a.nav.IsPathPending() || a.nav.RemainingDistance() > a.profile.StoppingDistance {
		return
	}

	if IsDebugEnabled() {
		slog.Debug("agent reached waypoint",
			"agent", a.body.Name(),
			"index", a.waypointIndex)
	}
	a.enterIdle()
}

// thinkChase keeps pursuing while the target is present and within
// SightDistance. Losing line of sight alone does not end a chase.
func (a *Agent) thinkChase(p Perception) {
	if !p.Present || p.Distance > a.profile.SightDistance {
		if IsDebugEnabled() {
			slog.Debug("agent lost target",
				"agent", a.body.Name(),
				"targetID", a.target,
				"present", p.Present,
				"distance", p.Distance)
		}
		a.target = model.NoEntity
		if len(a.profile.Waypoints) > 0 {
			a.enterWalk()
		} else {
			a.enterIdle()
		}
		return
	}

	a.target = p.Target
	a.moveTo(p.TargetPosition, a.profile.ChaseSpeed)
}

func (a *Agent) enterIdle() {
	a.moveTo(a.body.Position(), a.profile.WalkSpeed)
	a.setState(model.StateIdle)
}

// enterWalk heads for the current waypoint without advancing the index.
func (a *Agent) enterWalk() {
	a.moveTo(a.profile.Waypoints[a.waypointIndex], a.profile.WalkSpeed)
	a.setState(model.StateWalk)
}

func (a *Agent) enterChase(p Perception) {
	a.target = p.Target
	a.moveTo(p.TargetPosition, a.profile.ChaseSpeed)
	a.setState(model.StateChase)
}

func (a *Agent) moveTo(pos model.Vec3, speed float64) {
	a.destination = pos
	if !a.nav.HasValidSurface() {
		if IsDebugEnabled() {
			slog.Debug("agent off navigable surface, move skipped",
				"agent", a.body.Name())
		}
		return
	}
	a.nav.SetSpeed(speed)
	a.nav.SetDestination(pos)
}

// setState switches state and resets the idle timer on any change.
func (a *Agent) setState(s model.AgentState) {
	old := model.AgentState(a.state.Swap(int32(s)))
	if old == s {
		return
	}
	a.idleElapsed = 0

	if IsDebugEnabled() {
		slog.Debug("agent state changed",
			"agent", a.body.Name(),
			"id", a.body.ID(),
			"from", old,
			"to", s)
	}
	if a.onStateChange != nil {
		a.onStateChange(a, old, s)
	}
}
