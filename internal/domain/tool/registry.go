package tool

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolNotRegistered     = errors.New("tool not registered")
)

// Registry maps tool names to implementations. It is populated once at
// startup and read-only afterwards, so concurrent turns can share it without
// locking.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its own name. Registration happens during
// process startup only; duplicate or nil registrations are rejected.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return ErrToolNotRegistered
	}
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return ErrToolNotRegistered
	}
	if _, exists := r.tools[name]; exists {
		return ErrToolAlreadyRegistered
	}
	r.tools[name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, ErrToolNotRegistered
	}
	return t, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry builds the standard four-tool registry.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Tool{
		NewWebSearch(),
		NewWikipedia(),
		NewArxiv(),
		NewCalculator(),
	} {
		// names are compile-time constants; duplicates cannot occur here.
		_ = r.Register(t)
	}
	return r
}
