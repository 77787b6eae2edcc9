// Package agent runs the ReAct control loop: it asks the model for a thought
// and an action, runs the selected tool, feeds the observation back and stops
// at a final answer. Every run is narrated into a transcript.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/config"
	"github.com/simonyos/reactchat/internal/llm"
	"github.com/simonyos/reactchat/internal/logging"
	"github.com/simonyos/reactchat/internal/prompts"
	"github.com/simonyos/reactchat/internal/tools"
	"github.com/simonyos/reactchat/internal/trace"
)

// RefusalAnswer is the answer for questions the tools cannot answer. The
// system prompt tells the model to give it verbatim after a "no information"
// observation.
const RefusalAnswer = prompts.RefusalAnswer

// observationStop ends a model reply before it invents its own observation.
const observationStop = "\nObservation:"

// ToolExecution records a single tool call and its result
type ToolExecution struct {
	Name   string
	Input  string
	Result string
	Failed bool
}

// Result is the outcome of one run. On error it still carries the partial
// transcript.
type Result struct {
	RunID      string
	Answer     string
	Transcript string
	Iterations int
	ToolCalls  []ToolExecution
}

// EventHandler receives callbacks during agent execution
type EventHandler interface {
	OnThinking(iteration int)
	OnToolUse(name, input string)
	OnToolResult(name string, result tools.ToolResult)
}

// Agent orchestrates the LLM and tools
type Agent struct {
	provider            llm.Provider
	registry            *tools.Registry
	system              string
	maxIterations       int
	handleParsingErrors bool
	temperature         float64
	customRules         string
	tee                 io.Writer
	handler             EventHandler
	logger              *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxIterations bounds the number of model calls per run.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithHandleParsingErrors controls whether malformed replies are fed back to
// the model as an observation (true) or end the run with ErrMalformedOutput.
func WithHandleParsingErrors(on bool) Option {
	return func(a *Agent) { a.handleParsingErrors = on }
}

// WithTemperature sets the loop model temperature.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// WithCustomRules appends instructions to the system prompt.
func WithCustomRules(rules string) Option {
	return func(a *Agent) { a.customRules = rules }
}

// WithTranscriptTee copies the transcript to w while it is written.
func WithTranscriptTee(w io.Writer) Option {
	return func(a *Agent) { a.tee = w }
}

// WithEventHandler sets the callback handler for agent events
func WithEventHandler(h EventHandler) Option {
	return func(a *Agent) { a.handler = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// New creates a new agent over provider and registry
func New(provider llm.Provider, registry *tools.Registry, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	if registry == nil {
		return nil, ErrNoTools
	}
	a := &Agent{
		provider:            provider,
		registry:            registry,
		maxIterations:       config.DefaultMaxIterations,
		handleParsingErrors: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger).Named("agent")

	system, err := prompts.NewPromptBuilder(registry.Describe(), registry.Names()).
		WithCustomRules(a.customRules).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build system prompt: %w", err)
	}
	a.system = system
	return a, nil
}

// SetEventHandler sets the callback handler for agent events
func (a *Agent) SetEventHandler(h EventHandler) {
	a.handler = h
}

// SystemPrompt returns the rendered system prompt
func (a *Agent) SystemPrompt() string {
	return a.system
}

// Tools returns the registry the agent dispatches to
func (a *Agent) Tools() *tools.Registry {
	return a.registry
}

// ModelName returns the loop model name
func (a *Agent) ModelName() string {
	return a.provider.ModelName()
}

// Run answers question. Each run is independent: earlier chat turns are not
// sent to the model.
func (a *Agent) Run(ctx context.Context, question string) (*Result, error) {
	state := NewRunState(uuid.NewString(), a.maxIterations)
	w := trace.NewWriter(a.tee)
	res := &Result{RunID: state.ID}
	finish := func(err error) (*Result, error) {
		res.Transcript = w.String()
		res.Iterations = state.CurrentIteration
		if err != nil {
			a.logger.Warn("run failed", append(state.Fields(), zap.Error(err))...)
		} else {
			a.logger.Info("run finished", state.Fields()...)
		}
		return res, err
	}

	a.logger.Info("run started", zap.String("run_id", state.ID), zap.String("question", question))

	var scratchpad string
	for !state.HasReachedMaxIterations() {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		iteration := state.IncrementIteration()
		if a.handler != nil {
			a.handler.OnThinking(iteration)
		}

		out, err := a.provider.Generate(ctx,
			[]llm.Message{
				llm.System(a.system),
				llm.User(prompts.UserPrompt(question, scratchpad)),
			},
			llm.WithTemperature(a.temperature),
			llm.WithStop(observationStop),
		)
		if err != nil {
			return finish(fmt.Errorf("model call failed: %w", err))
		}
		a.logger.Debug("model output", zap.String("run_id", state.ID), zap.Int("iteration", iteration), zap.String("output", out))

		decision, err := ParseOutput(out)
		if err != nil {
			var perr *ParseError
			ok := errors.As(err, &perr)
			if !ok || !a.handleParsingErrors {
				w.Thought(rawThought(out))
				return finish(err)
			}
			state.ParseErrors++
			w.Thought(rawThought(out))
			w.Observation(perr.Feedback())
			scratchpad += step(out, perr.Feedback())
			continue
		}

		if decision.Final {
			w.Thought(decision.Thought)
			w.FinalAnswer(decision.Answer)
			res.Answer = decision.Answer
			return finish(nil)
		}

		w.Thought(decision.Thought)
		w.Action(decision.Tool)
		w.ActionInput(decision.Input)
		if a.handler != nil {
			a.handler.OnToolUse(decision.Tool, decision.Input)
		}

		result := a.registry.Execute(ctx, tools.ToolCall{Name: decision.Tool, Input: decision.Input})
		state.ToolCalls++
		if a.handler != nil {
			a.handler.OnToolResult(decision.Tool, result)
		}

		w.Observation(result.Output)
		res.ToolCalls = append(res.ToolCalls, ToolExecution{
			Name:   decision.Tool,
			Input:  decision.Input,
			Result: result.Output,
			Failed: !result.Success,
		})
		scratchpad += step(out, result.Output)
	}

	return finish(fmt.Errorf("%w (%d iterations)", ErrIterationLimit, state.MaxIterations))
}

// rawThought is an unparseable reply as it appears in the transcript.
func rawThought(out string) string {
	return strings.TrimPrefix(strings.TrimSpace(out), "Thought:")
}

// step renders one finished iteration for the scratchpad.
func step(modelOutput, observation string) string {
	return modelOutput + observationStop + " " + observation + "\nThought: "
}
