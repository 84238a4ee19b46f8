package render

import (
	"testing"

	theme "github.com/goliatone/go-theme"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			"forms.input": "themes/acme/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"forms.checkbox": "themes/acme/dark/checkbox.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"vendor": "vendor.dark.js",
					},
				},
			},
		},
	}
}

func TestThemeConfig_VariantMerging(t *testing.T) {
	selector := NewStaticSelector(acmeManifest())

	cfg, err := ThemeConfig(selector, "acme", "dark")
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config")
	}

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("selection not carried: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials["forms.input"] != "themes/acme/input.tmpl" {
		t.Fatalf("base template override lost: %s", cfg.Partials["forms.input"])
	}
	if cfg.Partials["forms.checkbox"] != "themes/acme/dark/checkbox.tmpl" {
		t.Fatalf("variant template override lost: %s", cfg.Partials["forms.checkbox"])
	}
	if cfg.Partials["forms.textarea"] != defaultPartials()["forms.textarea"] {
		t.Fatalf("fallback partial missing: %s", cfg.Partials["forms.textarea"])
	}
	if cfg.Tokens["brand"] != "#654321" {
		t.Fatalf("variant token not merged: %s", cfg.Tokens["brand"])
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived: %s", cfg.CSSVars["--brand"])
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("variant asset url: %s", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("stylesheet asset url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset must resolve empty, got %s", got)
	}
}

func TestThemeConfig_NilSelector(t *testing.T) {
	cfg, err := ThemeConfig(nil, "acme", "")
	if err != nil || cfg != nil {
		t.Fatalf("nil selector must be a no-op, got %v / %v", cfg, err)
	}
}

func TestStaticSelector_Defaults(t *testing.T) {
	selector := NewStaticSelector(acmeManifest())
	selector.SetDefault("acme", "dark")

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "dark" {
		t.Fatalf("defaults not applied: %s/%s", selection.Theme, selection.Variant)
	}

	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("unknown theme must fail")
	}
}
