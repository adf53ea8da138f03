// Package game implements the digit-entry session state machine.
package game

// State is the phase of a practice session.
type State int

const (
	// Idle means no session is running.
	Idle State = iota
	// Playing accepts input. A mistake moves the session to Practice.
	Playing
	// Practice reveals upcoming digits. A correct digit returns to Playing.
	Practice
	// Finished is read-only until Reset.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Practice:
		return "practice"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Active reports whether the state accepts digits.
func (s State) Active() bool {
	return s == Playing || s == Practice
}

// next returns the state after a validation outcome.
func (s State) next(correct bool) State {
	switch {
	case s == Playing && !correct:
		return Practice
	case s == Practice && correct:
		return Playing
	default:
		return s
	}
}
