package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SubjectPrefix is the subject namespace for turn records.
const SubjectPrefix = "reactchat.turns"

// SubjectAll matches the turns of every session.
const SubjectAll = SubjectPrefix + ".>"

// Subject returns the subject a session's turns are published on.
func Subject(sessionID string) string {
	return SubjectPrefix + "." + sessionID
}

// StepRecord is one labelled transcript step.
type StepRecord struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// TurnRecord is the wire form of a finished turn.
type TurnRecord struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"session_id"`
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Transcript string       `json:"transcript,omitempty"`
	Steps      []StepRecord `json:"steps,omitempty"`
	Error      string       `json:"error,omitempty"`
	Iterations int          `json:"iterations,omitempty"`
	ToolCalls  int          `json:"tool_calls,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
}

// Failed reports whether the turn ended in an error.
func (r *TurnRecord) Failed() bool {
	return r.Error != ""
}

// Encode serializes the record to JSON.
func (r *TurnRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeTurnRecord deserializes a record and checks its identifiers.
func DecodeTurnRecord(data []byte) (*TurnRecord, error) {
	var r TurnRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}
	if r.ID == "" || r.SessionID == "" {
		return nil, fmt.Errorf("%w: missing id or session_id", ErrInvalidRecord)
	}
	return &r, nil
}

// Publisher sends finished turns somewhere.
type Publisher interface {
	Publish(ctx context.Context, rec *TurnRecord) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, *TurnRecord) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
