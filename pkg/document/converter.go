package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Converter turns sanitised markup into a file format.
type Converter interface {
	Name() string
	ContentType() string
	Extension() string
	Convert(ctx context.Context, markup string) ([]byte, error)
}

// Registry stores converters by name.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[string]Converter),
	}
}

// DefaultRegistry registers the PDF and HTML converters with default
// settings.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(NewPDFConverter(DefaultPDFConfig()))
	registry.MustRegister(NewHTMLConverter(DefaultPDFConfig()))
	return registry
}

// Register adds a converter by its Name(). Duplicate names return an error.
func (r *Registry) Register(converter Converter) error {
	if converter == nil {
		return fmt.Errorf("document: converter is required")
	}
	name := strings.ToLower(strings.TrimSpace(converter.Name()))
	if name == "" {
		return fmt.Errorf("document: converter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[name]; exists {
		return fmt.Errorf("document: converter %q already registered", name)
	}
	r.converters[name] = converter
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(converter Converter) {
	if err := r.Register(converter); err != nil {
		panic(err)
	}
}

// Get retrieves a converter by name, case-insensitively.
func (r *Registry) Get(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	converter, ok := r.converters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return converter, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a converter is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.converters[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
