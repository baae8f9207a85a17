// Package config provides YAML and TOML configuration loading for the
// block editor.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/registry"
)

// Config is the complete editor configuration.
type Config struct {
	Editor  EditorConfig   `yaml:"editor" toml:"editor"`
	Map     MapConfig      `yaml:"map" toml:"map"`
	Storage StorageConfig  `yaml:"storage" toml:"storage"`
	Server  ServerConfig   `yaml:"server" toml:"server"`
	Log     LogConfig      `yaml:"log" toml:"log"`
	Palette []PaletteEntry `yaml:"palette" toml:"palette"`
}

// EditorConfig configures the editing kernel.
type EditorConfig struct {
	FPS            int   `yaml:"fps" toml:"fps"`
	ZoomLevels     []int `yaml:"zoom_levels" toml:"zoom_levels"`
	DefaultZoom    int   `yaml:"default_zoom" toml:"default_zoom"`
	HistoryLimit   int   `yaml:"history_limit" toml:"history_limit"`
	Overwrite      bool  `yaml:"overwrite" toml:"overwrite"`
	PauseTimeoutMS int   `yaml:"pause_timeout_ms" toml:"pause_timeout_ms"`
	TeleportBlock  int   `yaml:"teleport_block" toml:"teleport_block"` // 0 = palette teleport type
}

// MapConfig sets the size of new maps.
type MapConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// StorageConfig locates the map library.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// ServerConfig configures the SSH server.
type ServerConfig struct {
	Address        string `yaml:"address" toml:"address"`
	HostKey        string `yaml:"host_key" toml:"host_key"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min" toml:"idle_timeout_min"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"` // debug, info, warn, error
	File  string `yaml:"file" toml:"file"`
}

// PaletteEntry overrides or adds a block type.
type PaletteEntry struct {
	ID    int    `yaml:"id" toml:"id"`
	Name  string `yaml:"name" toml:"name"`
	Glyph string `yaml:"glyph" toml:"glyph"`
	Color string `yaml:"color" toml:"color"`
	Kind  string `yaml:"kind" toml:"kind"`
}

// Validate reports configuration values the editor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Editor.FPS <= 0 {
		errs = append(errs, fmt.Errorf("editor.fps must be positive, got %d", c.Editor.FPS))
	}
	if len(c.Editor.ZoomLevels) == 0 {
		errs = append(errs, errors.New("editor.zoom_levels must not be empty"))
	}
	for _, z := range c.Editor.ZoomLevels {
		if z <= 0 {
			errs = append(errs, fmt.Errorf("editor.zoom_levels entries must be positive, got %d", z))
		}
	}
	if c.Editor.DefaultZoom <= 0 {
		errs = append(errs, fmt.Errorf("editor.default_zoom must be positive, got %d", c.Editor.DefaultZoom))
	}
	if err := core.CheckSize(c.Map.Width, c.Map.Height); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := c.PaletteTypes(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// PaletteTypes converts the palette entries to registry block types.
// An entry for a built-in id only changes the fields it sets; an entry for
// a new id must have a name.
func (c Config) PaletteTypes() ([]registry.BlockType, error) {
	out := make([]registry.BlockType, 0, len(c.Palette))
	for _, p := range c.Palette {
		id := core.BlockID(p.ID)
		bt, builtin := registry.Lookup(id)
		if !builtin {
			if strings.TrimSpace(p.Name) == "" {
				return nil, fmt.Errorf("palette %d: new block type needs a name", p.ID)
			}
			bt = registry.BlockType{ID: id}
		}
		if p.Name != "" {
			bt.Name = p.Name
		}
		if rs := []rune(p.Glyph); len(rs) > 0 {
			bt.Glyph = rs[0]
		}
		if p.Color != "" {
			color, err := core.ParseColor(p.Color)
			if err != nil {
				return nil, fmt.Errorf("palette %d: %w", p.ID, err)
			}
			bt.Color = color
		}
		if p.Kind != "" || !builtin {
			kind, err := registry.ParseKind(strings.ToLower(p.Kind))
			if err != nil {
				return nil, fmt.Errorf("palette %d: %w", p.ID, err)
			}
			bt.Kind = kind
		}
		out = append(out, bt)
	}
	return out, nil
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
