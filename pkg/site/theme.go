package site

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the manifest shipped with the site.
const DefaultThemeName = "claimform"

// DefaultManifest returns the built-in palette with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":        "#2563eb",
			"brand-strong": "#1d4ed8",
			"surface":      "#ffffff",
			"text":         "#111827",
			"muted":        "#6b7280",
			"danger":       "#dc2626",
			"success":      "#16a34a",
			"radius":       "0.5rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "site.css",
				"script":     "site.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#f9fafb",
					"muted":   "#9ca3af",
				},
			},
		},
	}
}

// Themes selects manifests by name and variant. It satisfies
// theme.ThemeSelector.
type Themes struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewThemes registers the given manifests. The first one becomes the
// fallback for empty or unknown names.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	themes := &Themes{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("site: register theme %q: %w", manifest.Name, err)
		}
		if themes.fallback == "" {
			themes.fallback = manifest.Name
		}
		themes.manifests[manifest.Name] = manifest
	}
	if themes.fallback == "" {
		return nil, fmt.Errorf("site: no themes registered")
	}
	return themes, nil
}

// Select resolves a manifest. An unknown variant falls back to the base
// tokens.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := t.manifests[strings.TrimSpace(name)]
	if !ok {
		manifest = t.manifests[t.fallback]
	}
	variant = strings.TrimSpace(variant)
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// Config flattens a selection into the values page templates consume.
func Config(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if v, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, v.Tokens)
		partials = mergeStrings(partials, v.Templates)
		files = mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  vars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a sorted declaration list.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
