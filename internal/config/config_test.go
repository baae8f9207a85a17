package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded default invalid: %v", err)
	}
	def := Default()
	if cfg.Editor.FPS != def.Editor.FPS || cfg.Map.Width != def.Map.Width || cfg.Storage.DBPath != def.Storage.DBPath {
		t.Errorf("embedded default %+v drifted from Default()", cfg)
	}
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", `
editor:
  fps: 60
map:
  width: 20
  height: 10
palette:
  - id: 40
    name: Lava
    glyph: "~"
    color: orange
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.FPS != 60 || cfg.Map.Width != 20 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Editor.HistoryLimit != Default().Editor.HistoryLimit {
		t.Error("omitted keys should keep defaults")
	}
	types, err := cfg.PaletteTypes()
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 1 || types[0].Glyph != '~' || types[0].Color != core.ColorOrange || types[0].Kind != registry.KindNormal {
		t.Errorf("PaletteTypes() = %+v", types)
	}
}

func TestPaletteTypesOverrideBuiltin(t *testing.T) {
	cfg := Default()
	cfg.Palette = []PaletteEntry{{ID: 4, Glyph: "#"}}
	types, err := cfg.PaletteTypes()
	if err != nil {
		t.Fatal(err)
	}
	builtin, _ := registry.Lookup(4)
	if types[0].Glyph != '#' || types[0].Name != builtin.Name || types[0].Color != builtin.Color {
		t.Errorf("override = %+v, expected built-in %+v with glyph '#'", types[0], builtin)
	}

	cfg.Palette = []PaletteEntry{{ID: 77, Glyph: "x"}}
	if _, err := cfg.PaletteTypes(); err == nil {
		t.Error("new block type without a name should be rejected")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.toml", `
[editor]
fps = 12
zoom_levels = [2, 4]
default_zoom = 4

[log]
level = "debug"

[[palette]]
id = 33
name = "Portal"
kind = "teleport"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.FPS != 12 || len(cfg.Editor.ZoomLevels) != 2 || cfg.Editor.DefaultZoom != 4 {
		t.Errorf("toml values not applied: %+v", cfg.Editor)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("Level() = %v, expected debug", cfg.Level())
	}
	types, _ := cfg.PaletteTypes()
	if len(types) != 1 || types[0].Kind != registry.KindTeleport {
		t.Errorf("PaletteTypes() = %+v", types)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".blockedit"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(home, ".blockedit"), "config.toml", "[map]\nwidth = 7\nheight = 3\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Map.Width != 7 {
		t.Errorf("Map.Width = %d, expected user config", cfg.Map.Width)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}
	bad := writeFile(t, dir, "bad.yaml", "editor: [")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "config:") {
		t.Errorf("malformed config error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.Editor.FPS = 0 }},
		{"no zoom levels", func(c *Config) { c.Editor.ZoomLevels = nil }},
		{"negative zoom level", func(c *Config) { c.Editor.ZoomLevels = []int{1, -2} }},
		{"zero default zoom", func(c *Config) { c.Editor.DefaultZoom = 0 }},
		{"empty map", func(c *Config) { c.Map.Width = 0 }},
		{"oversized map", func(c *Config) { c.Map.Height = core.MaxDimension + 1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad palette color", func(c *Config) { c.Palette = []PaletteEntry{{ID: 1, Color: "plaid"}} }},
		{"bad palette kind", func(c *Config) { c.Palette = []PaletteEntry{{ID: 1, Kind: "portal"}} }},
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := ExpandPath("~/maps.db"); got != filepath.Join(home, "maps.db") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/tmp/x"); got != "/tmp/x" {
		t.Errorf("absolute path changed: %q", got)
	}
}
