package agent

import (
	"time"

	"go.uber.org/zap"
)

// RunState tracks one control loop run.
type RunState struct {
	ID        string
	StartedAt time.Time

	CurrentIteration int
	MaxIterations    int

	ToolCalls   int
	ParseErrors int
}

// NewRunState creates a run state with defaults
func NewRunState(id string, maxIterations int) *RunState {
	return &RunState{
		ID:            id,
		StartedAt:     time.Now(),
		MaxIterations: maxIterations,
	}
}

// IncrementIteration increments and returns the current iteration count
func (rs *RunState) IncrementIteration() int {
	rs.CurrentIteration++
	return rs.CurrentIteration
}

// HasReachedMaxIterations checks if max iterations have been reached
func (rs *RunState) HasReachedMaxIterations() bool {
	return rs.CurrentIteration >= rs.MaxIterations
}

// Duration returns how long the run has been going
func (rs *RunState) Duration() time.Duration {
	return time.Since(rs.StartedAt)
}

// Fields returns the state as log fields
func (rs *RunState) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", rs.ID),
		zap.Duration("duration", rs.Duration()),
		zap.Int("iterations", rs.CurrentIteration),
		zap.Int("max_iterations", rs.MaxIterations),
		zap.Int("tool_calls", rs.ToolCalls),
		zap.Int("parse_errors", rs.ParseErrors),
	}
}
