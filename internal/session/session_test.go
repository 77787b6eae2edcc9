package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonyos/reactchat/internal/agent"
	"github.com/simonyos/reactchat/internal/broadcast"
	"github.com/simonyos/reactchat/internal/facts"
	"github.com/simonyos/reactchat/internal/llm"
	"github.com/simonyos/reactchat/internal/render"
	"github.com/simonyos/reactchat/internal/tools"
	"github.com/simonyos/reactchat/internal/trace"
)

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, question string) (*agent.Result, error)

func (f RunnerFunc) Run(ctx context.Context, question string) (*agent.Result, error) {
	return f(ctx, question)
}

const calcTranscript = "Thought: I need to multiply.\n" +
	"Action: Calculator\n" +
	"Action Input: 12*7\n" +
	"Observation: 84\n" +
	"Thought: I now know the final answer\n" +
	"Final Answer: 84\n"

func answer(text, transcript string) Runner {
	return RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		return &agent.Result{Answer: text, Transcript: transcript}, nil
	})
}

// MockPublisher records published turns.
type MockPublisher struct {
	mu      sync.Mutex
	records []*broadcast.TurnRecord
	err     error
}

func (m *MockPublisher) Publish(_ context.Context, rec *broadcast.TurnRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func (m *MockPublisher) Close() error { return nil }

func TestState_Transitions(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{Idle, Dispatched, true},
		{Dispatched, TraceCaptured, true},
		{Dispatched, Failed, true},
		{TraceCaptured, Segmented, true},
		{Segmented, Rendered, true},
		{Failed, Rendered, true},
		{Rendered, Idle, true},
		{Idle, Rendered, false},
		{Dispatched, Segmented, false},
		{Failed, Idle, false},
		{Rendered, Dispatched, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.to.String(), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
			} else {
				assert.True(t, errors.Is(err, ErrBadTransition))
				assert.Equal(t, tt.from, got)
			}
		})
	}
	assert.Equal(t, "unknown", State(42).String())
}

func TestDispatch_Success(t *testing.T) {
	pub := &MockPublisher{}
	s := New(answer("84", calcTranscript), WithPublisher(pub), WithID("s-1"))

	turn := s.Dispatch(context.Background(), "What is 12 times 7?")
	require.NotNil(t, turn)
	require.NoError(t, turn.Err)

	assert.Equal(t, "84", turn.Answer)
	assert.Equal(t, []State{Dispatched, TraceCaptured, Segmented, Rendered, Idle}, turn.States)
	assert.Len(t, turn.Steps, 5)
	assert.Equal(t, render.Prose, turn.View.Mode)
	assert.Equal(t, render.StepsTitle, turn.View.TraceTitle)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, calcTranscript, s.LastTranscript())

	assert.Equal(t, []ChatTurn{
		{Role: RoleUser, Content: "What is 12 times 7?"},
		{Role: RoleAssistant, Content: "84"},
	}, s.History())

	require.Len(t, pub.records, 1)
	rec := pub.records[0]
	assert.Equal(t, "s-1", rec.SessionID)
	assert.Equal(t, turn.ID, rec.ID)
	assert.False(t, rec.Failed())
	require.Len(t, rec.Steps, 5)
	assert.Equal(t, broadcast.StepRecord{Label: "Action Input", Text: "12*7"}, rec.Steps[2])
}

func TestDispatch_Failure(t *testing.T) {
	partial := "Thought: let me look\nAction: Search\nAction Input: x\nObservation: nothing\n"
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		return &agent.Result{Transcript: partial}, agent.ErrIterationLimit
	}))

	turn := s.Dispatch(context.Background(), "loop forever")
	require.NotNil(t, turn)
	assert.True(t, errors.Is(turn.Err, agent.ErrIterationLimit))
	assert.Equal(t, ErrorReplyPrefix+agent.ErrIterationLimit.Error(), turn.Answer)
	assert.Equal(t, []State{Dispatched, Failed, Rendered, Idle}, turn.States)
	assert.Empty(t, turn.Steps)
	assert.False(t, turn.View.HasTrace())
	assert.Equal(t, turn.Answer, turn.View.Answer)
	assert.Equal(t, partial, turn.Transcript)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, turn.Answer, history[1].Content)
	assert.Equal(t, Idle, s.State())
}

func TestDispatch_NilResult(t *testing.T) {
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		return nil, errors.New("boom")
	}))

	turn := s.Dispatch(context.Background(), "hi")
	assert.Equal(t, "An error occurred: boom", turn.Answer)
	assert.Empty(t, turn.Steps)
	assert.False(t, turn.View.HasTrace())
}

func TestDispatch_TurnInProgress(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		close(started)
		<-release
		return &agent.Result{Answer: "done"}, nil
	}))

	done := make(chan *Turn)
	go func() { done <- s.Dispatch(context.Background(), "first") }()
	<-started

	assert.Equal(t, Dispatched, s.State())
	second := s.Dispatch(context.Background(), "second")
	require.NotNil(t, second)
	assert.True(t, errors.Is(second.Err, ErrTurnInProgress))
	assert.Empty(t, second.States)

	close(release)
	select {
	case first := <-done:
		assert.NoError(t, first.Err)
		assert.Equal(t, "done", first.Answer)
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for first turn")
	}

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
}

func TestDispatch_PublishErrorDoesNotFailTurn(t *testing.T) {
	pub := &MockPublisher{err: errors.New("nats down")}
	s := New(answer("ok", "Thought: fine\nFinal Answer: ok\n"), WithPublisher(pub))

	turn := s.Dispatch(context.Background(), "q")
	assert.NoError(t, turn.Err)
	assert.Len(t, pub.records, 1)
}

func TestSession_HistoryIsCopy(t *testing.T) {
	s := New(answer("a", ""))
	s.Dispatch(context.Background(), "q")

	h := s.History()
	h[0].Content = "changed"
	assert.Equal(t, "q", s.History()[0].Content)
}

func TestSession_Reset(t *testing.T) {
	s := New(answer("84", calcTranscript))
	s.Dispatch(context.Background(), "q")
	require.NotEmpty(t, s.History())

	s.Reset()
	assert.Empty(t, s.History())
	assert.Empty(t, s.LastTranscript())
	assert.NotEmpty(t, s.ID())
}

func TestDispatch_WithAgent(t *testing.T) {
	replies := []string{
		"Thought: I should search for this.\nAction: Search\nAction Input: capital of Mars",
		"Thought: The search tool has no information.\nFinal Answer: " + agent.RefusalAnswer,
	}
	var calls int
	provider := llm.ProviderFunc(func(context.Context, []llm.Message, ...llm.CallOption) (string, error) {
		reply := replies[calls]
		calls++
		return reply, nil
	})

	registry, err := tools.NewDefaultRegistry(facts.Default(), provider, nil)
	require.NoError(t, err)
	ag, err := agent.New(provider, registry)
	require.NoError(t, err)

	s := New(ag)
	turn := s.Dispatch(context.Background(), "What is the capital of Mars?")
	require.NoError(t, turn.Err)
	assert.Equal(t, agent.RefusalAnswer, turn.Answer)

	require.Len(t, turn.Steps, 5)
	assert.Equal(t, trace.Observation, turn.Steps[3].Label)
	assert.Equal(t, facts.NoInformation, turn.Steps[3].Body())
}

func TestDispatch_FailedTurnRecordKeepsTranscript(t *testing.T) {
	partial := "Thought: try\nAction: Calculator\nAction Input: 1/0\nObservation: Error\n"
	pub := &MockPublisher{}
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		return &agent.Result{Transcript: partial}, errors.New("model call failed")
	}), WithPublisher(pub))

	s.Dispatch(context.Background(), "q")

	require.Len(t, pub.records, 1)
	rec := pub.records[0]
	assert.True(t, rec.Failed())
	assert.Equal(t, partial, rec.Transcript)
	assert.Empty(t, rec.Steps)
}

func TestDispatch_RunnerPanic(t *testing.T) {
	calls := 0
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		calls++
		if calls == 1 {
			panic("sdk exploded")
		}
		return &agent.Result{Answer: "84", Transcript: calcTranscript}, nil
	}))

	turn := s.Dispatch(context.Background(), "first")
	require.NotNil(t, turn)
	assert.True(t, errors.Is(turn.Err, ErrRunnerPanic))
	assert.Contains(t, turn.Answer, ErrorReplyPrefix)
	assert.Contains(t, turn.Answer, "sdk exploded")
	assert.Equal(t, []State{Dispatched, Failed, Rendered, Idle}, turn.States)
	assert.Equal(t, Idle, s.State())

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleAssistant, history[1].Role)

	next := s.Dispatch(context.Background(), "second")
	require.NoError(t, next.Err)
	assert.Equal(t, "84", next.Answer)
}

func TestDispatch_RecordsToolCalls(t *testing.T) {
	pub := &MockPublisher{}
	s := New(RunnerFunc(func(context.Context, string) (*agent.Result, error) {
		return &agent.Result{
			Answer:     "84",
			Transcript: calcTranscript,
			Iterations: 2,
			ToolCalls:  []agent.ToolExecution{{Name: "Calculator", Input: "12*7", Result: "84"}},
		}, nil
	}), WithPublisher(pub))

	turn := s.Dispatch(context.Background(), "What is 12 times 7?")
	assert.Equal(t, 2, turn.Iterations)
	assert.Equal(t, 1, turn.ToolCalls)
	require.Len(t, pub.records, 1)
	assert.Equal(t, 2, pub.records[0].Iterations)
	assert.Equal(t, 1, pub.records[0].ToolCalls)
}
