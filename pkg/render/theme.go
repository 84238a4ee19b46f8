package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// LoadManifest reads a theme manifest from a JSON file.
func LoadManifest(path string) (*theme.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("render: theme manifest %s has no name", path)
	}
	return &manifest, nil
}

// defaultPartials are the template slots a theme may override, with
// their built-in fallbacks.
func defaultPartials() map[string]string {
	return map[string]string{
		"forms.input":    "partials/input.tmpl",
		"forms.select":   "partials/select.tmpl",
		"forms.textarea": "partials/textarea.tmpl",
		"forms.checkbox": "partials/checkbox.tmpl",
	}
}

// StaticSelector is a theme.ThemeSelector over a fixed manifest set,
// for hosts that load their themes at startup.
type StaticSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewStaticSelector builds a selector. The first manifest becomes the
// default theme unless SetDefault is called.
func NewStaticSelector(manifests ...*theme.Manifest) *StaticSelector {
	s := &StaticSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	return s
}

// SetDefault names the theme and variant used when Select receives empty
// arguments.
func (s *StaticSelector) SetDefault(name, variant string) {
	s.defaultTheme = name
	s.defaultVariant = variant
}

// Select implements theme.ThemeSelector.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig resolves a theme selection into the configuration
// renderers consume: merged partials, variant-aware tokens, CSS custom
// properties derived from the tokens, and an asset URL resolver.
func ThemeConfig(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}
	return configFromSelection(selection), nil
}

func configFromSelection(selection *theme.Selection) *theme.RendererConfig {
	manifest := selection.Manifest

	partials := defaultPartials()
	for slot, tmpl := range manifest.Templates {
		partials[slot] = tmpl
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}

	assets := theme.Assets{
		Prefix: manifest.Assets.Prefix,
		Files:  make(map[string]string, len(manifest.Assets.Files)),
	}
	for key, file := range manifest.Assets.Files {
		assets.Files[key] = file
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for slot, tmpl := range variant.Templates {
			partials[slot] = tmpl
		}
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		if variant.Assets.Prefix != "" {
			assets.Prefix = variant.Assets.Prefix
		}
		for key, file := range variant.Assets.Files {
			assets.Files[key] = file
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(assets.Prefix, "/")
	files := assets.Files

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return prefix + "/" + file
		},
	}
}
