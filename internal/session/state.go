package session

import (
	"errors"
	"fmt"
)

var (
	ErrTurnInProgress = errors.New("a turn is already in progress")
	ErrBadTransition  = errors.New("invalid turn state transition")
	ErrRunnerPanic    = errors.New("agent crashed")
)

// State is the phase of the turn a session is working on.
type State int

const (
	Idle State = iota
	Dispatched
	TraceCaptured
	Segmented
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatched:
		return "dispatched"
	case TraceCaptured:
		return "trace_captured"
	case Segmented:
		return "segmented"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	Idle:          {Dispatched},
	Dispatched:    {TraceCaptured, Failed},
	TraceCaptured: {Segmented},
	Segmented:     {Rendered},
	Failed:        {Rendered},
	Rendered:      {Idle},
}

// CanTransition reports whether a turn may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Transition returns next, or ErrBadTransition when the move is not allowed.
func (s State) Transition(next State) (State, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrBadTransition, s, next)
	}
	return next, nil
}
