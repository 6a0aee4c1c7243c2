package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-claimform/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.Page, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistryResolvesFirstRendererByDefault(t *testing.T) {
	registry, err := render.NewRegistry(namedRenderer("Vanilla"), namedRenderer("tui"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if got := registry.Default(); got != "vanilla" {
		t.Fatalf("default = %q, want vanilla", got)
	}
	got, err := registry.Resolve("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if got.Name() != "Vanilla" {
		t.Fatalf("resolved %q", got.Name())
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryLookupIgnoresCaseAndSpace(t *testing.T) {
	registry, err := render.NewRegistry(namedRenderer("vanilla"), namedRenderer("tui"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	got, err := registry.Resolve("  TUI ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name() != "tui" {
		t.Fatalf("resolved %q", got.Name())
	}

	if err := registry.SetDefault("Tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Resolve(""); got.Name() != "tui" {
		t.Fatalf("default after SetDefault = %q", got.Name())
	}
}

func TestRegistryErrors(t *testing.T) {
	empty, err := render.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := empty.Resolve(""); !errors.Is(err, render.ErrNoRenderers) {
		t.Fatalf("resolve on empty registry: %v", err)
	}

	if _, err := render.NewRegistry(namedRenderer("vanilla"), namedRenderer("VANILLA")); err == nil {
		t.Fatalf("expected duplicate name to fail")
	}
	if _, err := render.NewRegistry(namedRenderer(" ")); err == nil {
		t.Fatalf("expected blank name to fail")
	}

	registry, err := render.NewRegistry(namedRenderer("vanilla"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := registry.Resolve("react"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("resolve unknown: %v", err)
	}
	if err := registry.SetDefault("react"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("set unknown default: %v", err)
	}
	if got := registry.Default(); got != "vanilla" {
		t.Fatalf("default changed to %q", got)
	}
}
