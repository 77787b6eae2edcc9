// Package session runs chat turns: it sends a question through the agent,
// segments and renders the transcript, and keeps the chat history.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/agent"
	"github.com/simonyos/reactchat/internal/broadcast"
	"github.com/simonyos/reactchat/internal/logging"
	"github.com/simonyos/reactchat/internal/render"
	"github.com/simonyos/reactchat/internal/trace"
)

// ErrorReplyPrefix starts the assistant reply of a failed turn.
const ErrorReplyPrefix = "An error occurred: "

// Role identifies who said a ChatTurn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of the visible conversation.
type ChatTurn struct {
	Role    Role
	Content string
}

// Runner answers one question. *agent.Agent implements it.
type Runner interface {
	Run(ctx context.Context, question string) (*agent.Result, error)
}

// Turn is the outcome of one Dispatch.
type Turn struct {
	ID         string
	SessionID  string
	Question   string
	Answer     string
	Transcript string
	Steps      []trace.Step
	View       render.View
	Err        error
	Iterations int
	ToolCalls  int
	States     []State
	StartedAt  time.Time
	Duration   time.Duration
}

// Record converts the turn to its wire form.
func (t *Turn) Record() *broadcast.TurnRecord {
	rec := &broadcast.TurnRecord{
		ID:         t.ID,
		SessionID:  t.SessionID,
		Question:   t.Question,
		Answer:     t.Answer,
		Transcript: t.Transcript,
		StartedAt:  t.StartedAt,
		Iterations: t.Iterations,
		ToolCalls:  t.ToolCalls,
		DurationMS: t.Duration.Milliseconds(),
	}
	for _, s := range t.Steps {
		rec.Steps = append(rec.Steps, broadcast.StepRecord{Label: s.Label.String(), Text: s.Body()})
	}
	if t.Err != nil {
		rec.Error = t.Err.Error()
	}
	return rec
}

// Session holds the history of one conversation. Turns run one at a time.
type Session struct {
	id        string
	runner    Runner
	publisher broadcast.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu             sync.Mutex
	state          State
	history        []ChatTurn
	lastTranscript string
}

// Option configures a Session.
type Option func(*Session)

// WithPublisher publishes every finished turn.
func WithPublisher(p broadcast.Publisher) Option {
	return func(s *Session) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(l) }
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New creates a session around runner.
func New(runner Runner, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		runner:    runner,
		publisher: broadcast.Nop{},
		logger:    logging.Nop(),
		now:       time.Now,
		state:     Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("session").With(zap.String("session_id", s.id))
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns the state of the current turn, Idle between turns.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the conversation so far.
func (s *Session) History() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

// LastTranscript returns the transcript of the most recent finished turn.
func (s *Session) LastTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTranscript
}

// Reset forgets the history. A turn in flight still records its messages
// when it finishes.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.lastTranscript = ""
	s.logger.Info("session reset")
}

// Dispatch runs one turn. It never returns nil: failures are reported in
// Turn.Err and as the assistant reply. While a turn is in flight further
// calls return a turn whose Err is ErrTurnInProgress and touch nothing else.
func (s *Session) Dispatch(ctx context.Context, question string) *Turn {
	turn := &Turn{
		ID:        uuid.NewString(),
		SessionID: s.id,
		Question:  question,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		turn.Err = ErrTurnInProgress
		return turn
	}
	s.advance(turn, Dispatched)
	s.history = append(s.history, ChatTurn{Role: RoleUser, Content: question})
	s.mu.Unlock()

	s.logger.Info("turn dispatched", zap.String("turn_id", turn.ID), zap.String("question", question))
	res, err := s.run(ctx, question)
	if res != nil {
		turn.Answer = res.Answer
		turn.Transcript = res.Transcript
		turn.Iterations = res.Iterations
		turn.ToolCalls = len(res.ToolCalls)
	}

	s.mu.Lock()
	if err != nil {
		// A failed turn shows only the error; the partial transcript stays
		// on the turn for raw display and the published record.
		turn.Err = err
		turn.Answer = ErrorReplyPrefix + err.Error()
		s.advance(turn, Failed)
		turn.View = render.Turn(turn.Answer, nil, "")
	} else {
		s.advance(turn, TraceCaptured)
		turn.Steps = trace.Steps(turn.Transcript)
		s.advance(turn, Segmented)
		turn.View = render.Turn(turn.Answer, turn.Steps, turn.Transcript)
	}
	s.advance(turn, Rendered)
	s.history = append(s.history, ChatTurn{Role: RoleAssistant, Content: turn.Answer})
	s.lastTranscript = turn.Transcript
	turn.Duration = s.now().Sub(turn.StartedAt)
	s.advance(turn, Idle)
	s.mu.Unlock()

	fields := []zap.Field{
		zap.String("turn_id", turn.ID),
		zap.Int("steps", len(turn.Steps)),
		zap.Int("iterations", turn.Iterations),
		zap.Int("tool_calls", turn.ToolCalls),
		zap.Duration("duration", turn.Duration),
	}
	if turn.Err != nil {
		s.logger.Warn("turn failed", append(fields, zap.Error(turn.Err))...)
	} else {
		s.logger.Info("turn finished", fields...)
	}

	if err := s.publisher.Publish(ctx, turn.Record()); err != nil {
		s.logger.Warn("publish turn failed", zap.String("turn_id", turn.ID), zap.Error(err))
	}
	return turn
}

// run calls the runner, turning a panic into an error so the turn still
// ends in Failed and the session returns to Idle.
func (s *Session) run(ctx context.Context, question string) (res *agent.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("runner panicked", zap.Any("panic", p), zap.Stack("stack"))
			res, err = nil, fmt.Errorf("%w: %v", ErrRunnerPanic, p)
		}
	}()
	return s.runner.Run(ctx, question)
}

// advance moves the session to next and records it on turn. Callers hold mu.
func (s *Session) advance(turn *Turn, next State) {
	to, err := s.state.Transition(next)
	if err != nil {
		s.logger.DPanic("turn state", zap.String("turn_id", turn.ID), zap.Error(err))
		return
	}
	s.state = to
	turn.States = append(turn.States, to)
}
