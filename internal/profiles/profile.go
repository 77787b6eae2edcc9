// Package profiles loads named agent profiles: markdown files whose YAML
// frontmatter tunes the control loop and whose body adds rules to the
// system prompt.
//
//	---
//	name: tutor
//	description: Explains every calculation
//	max_iterations: 8
//	temperature: 0
//	---
//	Always show the arithmetic you asked the Calculator to perform.
package profiles

import (
	"errors"
	"strings"
)

var (
	ErrMissingName        = errors.New("profile missing required 'name' field")
	ErrMissingRules       = errors.New("profile missing rules (markdown body)")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidFrontmatter = errors.New("invalid YAML frontmatter")
	ErrNoFrontmatter      = errors.New("markdown file missing YAML frontmatter")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
)

// Profile is one loaded profile file.
type Profile struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	MaxIterations int      `yaml:"max_iterations"`
	Temperature   *float64 `yaml:"temperature"`

	// Rules is the markdown body after the frontmatter.
	Rules string `yaml:"-"`

	// FilePath is the source file this profile was loaded from.
	FilePath string `yaml:"-"`
}

// Validate checks if the profile is usable
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Rules == "" {
		return ErrMissingRules
	}
	if p.Temperature != nil && (*p.Temperature < 0 || *p.Temperature > 2) {
		return ErrInvalidTemperature
	}
	return nil
}

// Registry holds profiles by lower-cased name. Later registrations replace
// earlier ones, so project profiles loaded last shadow global ones.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry holding ps.
func NewRegistry(ps ...*Profile) *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}
	for _, p := range ps {
		r.profiles[strings.ToLower(p.Name)] = p
	}
	return r
}

// Get returns the profile called name.
func (r *Registry) Get(name string) (*Profile, error) {
	p, ok := r.profiles[strings.ToLower(name)]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// List returns all profiles sorted by name.
func (r *Registry) List() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sortByName(out)
	return out
}
