package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/simonyos/reactchat/internal/broadcast"
	"github.com/simonyos/reactchat/internal/profiles"
	"github.com/simonyos/reactchat/internal/render"
	"github.com/simonyos/reactchat/internal/session"
	"github.com/simonyos/reactchat/internal/trace"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "", firstNonEmpty())
}

func sampleTurn() *session.Turn {
	transcript := "Thought: multiply\nAction: Calculator\nAction Input: 12*7\nObservation: 84\nThought: done\nFinal Answer: 84\n"
	steps := trace.Steps(transcript)
	return &session.Turn{
		Answer:     "84",
		Transcript: transcript,
		Steps:      steps,
		View:       render.Turn("84", steps, transcript),
		States:     []session.State{session.Dispatched},
	}
}

func TestTurnPrinter_Plain(t *testing.T) {
	tests := []struct {
		name        string
		steps, raw  bool
		contains    []string
		notContains []string
	}{
		{name: "answer only", contains: []string{"84\n"}, notContains: []string{render.StepsTitle, render.RawTitle}},
		{name: "steps", steps: true, contains: []string{render.StepsTitle, "**Action Input:**"}},
		{name: "raw", raw: true, contains: []string{render.RawTitle, "Action Input: 12*7"}, notContains: []string{render.StepsTitle}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newTurnPrinter(&buf)
			p.plain = true
			p.steps = tt.steps
			p.raw = tt.raw
			p.Print(sampleTurn())
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestTurnPrinter_Rejected(t *testing.T) {
	var buf bytes.Buffer
	newTurnPrinter(&buf).Print(&session.Turn{Err: session.ErrTurnInProgress})
	assert.Contains(t, buf.String(), "Error: "+session.ErrTurnInProgress.Error())
}

func TestPrintRecord(t *testing.T) {
	var buf bytes.Buffer
	printRecord(&buf, &broadcast.TurnRecord{
		ID:         "t1",
		SessionID:  "0123456789abcdef",
		Question:   "What is 2+2?",
		Answer:     "4",
		Steps:      make([]broadcast.StepRecord, 3),
		ToolCalls:  1,
		StartedAt:  time.Now(),
		DurationMS: 1500,
	})
	out := buf.String()
	assert.Contains(t, out, "[01234567]")
	assert.Contains(t, out, "3 steps")
	assert.Contains(t, out, "1 tool calls")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "Q: What is 2+2?")
	assert.Contains(t, out, "A: 4")
}

func TestProfileOptions(t *testing.T) {
	temp := 0.2
	assert.Len(t, profileOptions(&profiles.Profile{Name: "a", Rules: "r"}), 1)
	assert.Len(t, profileOptions(&profiles.Profile{Name: "a", Rules: "r", MaxIterations: 4, Temperature: &temp}), 3)
}

func TestPrintProfiles(t *testing.T) {
	var buf bytes.Buffer
	printProfiles(&buf, nil, []string{"/cfg/profiles"})
	assert.Contains(t, buf.String(), "No profiles found")
	assert.Contains(t, buf.String(), "/cfg/profiles")

	buf.Reset()
	printProfiles(&buf, []*profiles.Profile{{Name: "tutor", Description: "Explains", FilePath: "/x/tutor.md"}}, nil)
	assert.Contains(t, buf.String(), "tutor")
	assert.Contains(t, buf.String(), "Explains")
	assert.Contains(t, buf.String(), "/x/tutor.md")
}
