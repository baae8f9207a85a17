// blockedit is a terminal editor for block grid maps.
//
// Usage:
//
//	blockedit edit [file]        - Edit a map file (or a new library map)
//	blockedit open [name]        - Edit a map from the library
//	blockedit maps               - List the map library
//	blockedit import <file>      - Store a map file in the library
//	blockedit export <name>      - Write a library map as YAML or PNG
//	blockedit serve              - Serve editor sessions over SSH
//
// Global flags:
//
//	--config <path>  - Config file (YAML, or TOML by extension)
//	--db <path>      - Map library database (overrides storage.db_path)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockedit/internal/config"
	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/editor"
	"github.com/vovakirdan/blockedit/internal/registry"
	"github.com/vovakirdan/blockedit/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockedit",
	Short: "blockedit - edit block grid maps in your terminal",
	Long: `blockedit is a mouse-driven editor for block grid maps.

Available commands:
  edit     - Edit a map file
  open     - Edit a map from the library
  maps     - List the map library
  import   - Store a map file in the library
  export   - Write a library map as YAML or PNG
  serve    - Serve editor sessions over SSH

Examples:
  blockedit edit level.yaml --watch
  blockedit open
  blockedit export arena --out arena.png
  blockedit serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to map library database")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// fatal prints err and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg
}

func newLogger(w io.Writer, cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockedit",
	})
	logger.SetLevel(cfg.Level())
	return logger
}

// fileLogger logs to the configured file; the terminal belongs to the TUI.
func fileLogger(cfg config.Config) (*log.Logger, io.Closer) {
	path := config.ExpandPath(cfg.Log.File)
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}
	return newLogger(f, cfg), f
}

func openStore(cfg config.Config) (*storage.Store, error) {
	return storage.Open(cfg.Storage.DBPath)
}

func newPalette(cfg config.Config) *registry.Palette {
	types, err := cfg.PaletteTypes()
	if err != nil {
		fatal("%v", err)
	}
	return registry.NewPalette(types...)
}

func newMap(cfg config.Config) *core.Map {
	return core.NewMap(cfg.Map.Width, cfg.Map.Height, cfg.Editor.DefaultZoom)
}

func newEditor(cfg config.Config, palette *registry.Palette, m *core.Map, logger *log.Logger) *editor.Editor {
	m.SetOverwrite(cfg.Editor.Overwrite)
	return editor.New(m, editor.Options{
		Palette:       palette,
		ZoomLevels:    cfg.Editor.ZoomLevels,
		HistoryLimit:  cfg.Editor.HistoryLimit,
		FPS:           cfg.Editor.FPS,
		TeleportBlock: core.BlockID(cfg.Editor.TeleportBlock),
		Logger:        logger,
	})
}

func pauseTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Editor.PauseTimeoutMS) * time.Millisecond
}
