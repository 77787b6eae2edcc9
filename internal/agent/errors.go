package agent

import "errors"

var (
	// ErrMalformedOutput means the model reply follows neither the action nor
	// the final answer format.
	ErrMalformedOutput = errors.New("could not parse model output")
	// ErrIterationLimit means the loop ran out of iterations before a final answer.
	ErrIterationLimit = errors.New("agent stopped due to iteration limit")
	ErrNoProvider     = errors.New("agent requires a provider")
	ErrNoTools        = errors.New("agent requires a tool registry")
)
