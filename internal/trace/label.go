// Package trace records and segments the narration of one ReAct loop run.
//
// A transcript is plain text in which every line that starts with one of the
// label tokens "Thought:", "Action:", "Action Input:" or "Observation:" opens
// a new step. Writer produces transcripts that keep that contract even when a
// tool's output contains label-like lines; Segment splits them back into steps.
package trace

// Label identifies the kind of a transcript step.
type Label int

const (
	Thought Label = iota
	Action
	ActionInput
	Observation
)

// Labels lists every label in loop order.
var Labels = []Label{Thought, Action, ActionInput, Observation}

func (l Label) String() string {
	switch l {
	case Thought:
		return "Thought"
	case Action:
		return "Action"
	case ActionInput:
		return "Action Input"
	case Observation:
		return "Observation"
	default:
		return "Unknown"
	}
}

// Token is the delimiter that introduces the label in transcript text.
func (l Label) Token() string {
	return l.String() + ":"
}

// matchOrder puts "Action Input:" ahead of "Action:" so the longer token wins.
var matchOrder = []Label{ActionInput, Action, Thought, Observation}
