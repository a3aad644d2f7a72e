package model

// AgentState represents the behavior mode of an AI-controlled agent.
type AgentState int32

const (
	// StateIdle - agent stands still and waits for the idle timer
	StateIdle AgentState = iota
	// StateWalk - agent patrols toward its current waypoint
	StateWalk
	// StateChase - agent pursues a perceived target
	StateChase
)

// String returns human-readable state name
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWalk:
		return "WALK"
	case StateChase:
		return "CHASE"
	default:
		return "UNKNOWN"
	}
}
