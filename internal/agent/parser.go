package agent

import (
	"fmt"
	"regexp"
	"strings"
)

const finalAnswerToken = "Final Answer:"

var (
	// actionPattern matches "Action: <name>" followed by "Action Input: <input>".
	actionPattern      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionLabelPattern = regexp.MustCompile(`Action\s*\d*\s*:`)
)

// Decision is one parsed model reply.
type Decision struct {
	Thought string
	Tool    string
	Input   string
	Answer  string
	Final   bool
}

// ParseError wraps ErrMalformedOutput with the reason and the raw reply.
type ParseError struct {
	Reason string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedOutput, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedOutput }

// Feedback is the observation sent back to the model when parsing errors are
// handled.
func (e *ParseError) Feedback() string {
	return "Invalid Format: " + e.Reason
}

// ParseOutput reads one model reply in ReAct format.
func ParseOutput(text string) (Decision, error) {
	body := strings.TrimSpace(text)
	body = strings.TrimSpace(strings.TrimPrefix(body, "Thought:"))

	action := actionPattern.FindStringSubmatchIndex(body)
	finalAt := strings.Index(body, finalAnswerToken)

	if finalAt >= 0 {
		if action != nil && action[0] < finalAt {
			return Decision{}, &ParseError{Reason: "Parsing LLM output produced both a final answer and a parse-able action", Output: text}
		}
		return Decision{
			Thought: strings.TrimSpace(body[:finalAt]),
			Answer:  strings.TrimSpace(body[finalAt+len(finalAnswerToken):]),
			Final:   true,
		}, nil
	}

	if action == nil {
		if actionLabelPattern.MatchString(body) {
			return Decision{}, &ParseError{Reason: "Missing 'Action Input:' after 'Action:'", Output: text}
		}
		return Decision{}, &ParseError{Reason: "Missing 'Action:' after 'Thought:'", Output: text}
	}

	tool := strings.Trim(strings.TrimSpace(body[action[2]:action[3]]), "`*\"'")
	if tool == "" {
		return Decision{}, &ParseError{Reason: "Missing tool name after 'Action:'", Output: text}
	}
	input := body[action[4]:action[5]]
	if i := strings.Index(input, "\nObservation"); i >= 0 {
		input = input[:i]
	}
	input = strings.TrimSpace(input)
	input = strings.Trim(input, " \"")

	return Decision{
		Thought: strings.TrimSpace(body[:action[0]]),
		Tool:    tool,
		Input:   input,
	}, nil
}
