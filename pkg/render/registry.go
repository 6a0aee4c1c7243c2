package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned when no renderer answers to a name.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrNoRenderers is returned when resolving against an empty registry.
	ErrNoRenderers = errors.New("render: no renderers registered")
)

// Registry holds the renderers that can draw claim pages, keyed by
// lower-cased name. The first renderer registered is the default until
// SetDefault picks another.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry creates an empty registry.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := normaliseName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// SetDefault selects the renderer used when a request names none.
func (r *Registry) SetDefault(name string) error {
	name = normaliseName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	r.fallback = name
	return nil
}

// Default returns the name of the default renderer, empty when the registry
// is empty.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Resolve returns the named renderer, or the default one for an empty name.
func (r *Registry) Resolve(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := normaliseName(name)
	if target == "" {
		if r.fallback == "" {
			return nil, ErrNoRenderers
		}
		target = r.fallback
	}
	renderer, ok := r.renderers[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Names lists the registered renderers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normaliseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
