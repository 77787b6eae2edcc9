// Package facts answers Search queries from a table of known facts.
//
// Lookups are case-insensitive substring matches of a trigger phrase against
// the query; the first matching entry wins. A miss is not an error: callers
// report NoInformation so the control loop can refuse to answer.
package facts

import (
	"context"
	"errors"
	"strings"
)

// NoInformation is the Search observation for a query with no matching fact.
// The loop prompt keys its refusal instruction on the "no information" phrase.
const NoInformation = "Search tool has no information on that specific query in its internal knowledge base."

var (
	ErrEmptyTrigger = errors.New("fact trigger is empty")
	ErrEmptyFact    = errors.New("fact text is empty")
)

// Entry maps a trigger phrase to a fact.
type Entry struct {
	Trigger string `json:"trigger" yaml:"trigger"`
	Fact    string `json:"fact" yaml:"fact"`
}

// Validate reports whether the entry can be matched.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Trigger) == "" {
		return ErrEmptyTrigger
	}
	if strings.TrimSpace(e.Fact) == "" {
		return ErrEmptyFact
	}
	return nil
}

// normalize trims and lower-cases the trigger so it matches the way queries
// are compared.
func (e Entry) normalize() Entry {
	return Entry{Trigger: strings.ToLower(strings.TrimSpace(e.Trigger)), Fact: e.Fact}
}

// Provider looks up a fact for a free-text query.
type Provider interface {
	Lookup(ctx context.Context, query string) (fact string, ok bool, err error)
}

// Static is an in-memory ordered fact table.
type Static struct {
	entries []Entry
}

// NewStatic builds a table from entries, keeping their order.
func NewStatic(entries ...Entry) (*Static, error) {
	s := &Static{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		s.entries = append(s.entries, e.normalize())
	}
	return s, nil
}

// Default returns the built-in table.
func Default() *Static {
	s, _ := NewStatic(
		Entry{Trigger: "capital of france", Fact: "The capital of France is Paris."},
		Entry{Trigger: "tallest mountain", Fact: "Mount Everest is the tallest mountain."},
		Entry{Trigger: "population of new york city", Fact: "The Population of New York City is approximately 8.5 million."},
	)
	return s
}

// Entries returns a copy of the table.
func (s *Static) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup implements Provider.
func (s *Static) Lookup(_ context.Context, query string) (string, bool, error) {
	fact, ok := match(s.entries, query)
	return fact, ok, nil
}

func match(entries []Entry, query string) (string, bool) {
	q := strings.ToLower(query)
	for _, e := range entries {
		if strings.Contains(q, strings.ToLower(e.Trigger)) {
			return e.Fact, true
		}
	}
	return "", false
}
