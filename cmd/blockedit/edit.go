package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockedit/internal/config"
	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/mapfile"
	"github.com/vovakirdan/blockedit/internal/platform/tui"
	"github.com/vovakirdan/blockedit/internal/storage"
)

var (
	flagWatch  bool
	flagName   string
	flagWidth  int
	flagHeight int
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit a map file",
	Long: `Open the editor on a YAML map file. The file is created on the first
save if it does not exist. Without a file, the map is saved to the library
under --name.

Mouse:
  Left click/drag   - Place the picked block, stamp, select or fill
  Right click/drag  - Delete blocks (outside the selection in select mode)
  Wheel             - Zoom

Keys:
  [ / ]        - Pick previous/next block
  S            - Select a region      C/X   - Copy/cut the selection
  Ctrl+V       - Paste clipboard      F     - Fill mode
  T            - Link teleports       K     - Teleport color
  Enter        - Commit link          Esc   - Cancel
  Ctrl+Z/Y     - Undo/redo            O     - Toggle overwrite
  Arrows       - Pan                  +/-   - Zoom
  Home         - Start position       Ctrl+S - Save
  ?            - Help                 Q     - Quit

Examples:
  blockedit edit level.yaml
  blockedit edit level.yaml --watch
  blockedit edit --name sandbox --width 60 --height 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the file when it changes on disk")
	editCmd.Flags().StringVar(&flagName, "name", "", "Library name of the map")
	editCmd.Flags().IntVar(&flagWidth, "width", 0, "Width of a new map in blocks (default from config)")
	editCmd.Flags().IntVar(&flagHeight, "height", 0, "Height of a new map in blocks (default from config)")
}

func runEdit(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagWidth > 0 {
		cfg.Map.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Map.Height = flagHeight
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	logger, closer := fileLogger(cfg)
	defer closer.Close()

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	m := newMap(cfg)
	name := flagName
	if path != "" {
		doc, err := mapfile.Load(path, cfg.Editor.DefaultZoom)
		switch {
		case err == nil:
			m = doc.Map
			if name == "" {
				name = doc.Name
			}
		case errors.Is(err, os.ErrNotExist):
			logger.Info("starting new map file", "path", path)
		default:
			fatal("%v", err)
		}
	}
	if path == "" && name == "" {
		fatal("give a map file or a --name to save under")
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open map library", "error", err)
		store = nil
	}

	runEditor(cfg, m, tui.EditorOptions{
		Name:      name,
		FilePath:  path,
		Store:     store,
		Watch:     flagWatch && path != "",
		Clipboard: tui.SystemClipboard(),
	}, logger, store)
}

// runEditor runs the TUI until the user quits or the process is signalled.
func runEditor(cfg config.Config, m *core.Map, opts tui.EditorOptions, logger *log.Logger, store *storage.Store) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if store != nil {
		defer store.Close()
	}

	opts.Logger = logger
	opts.PauseTimeout = pauseTimeout(cfg)
	ed := newEditor(cfg, newPalette(cfg), m, logger)

	logger.Info("editor started", "name", opts.Name, "file", opts.FilePath, "size", core.GI(m.W(), m.H()))
	if err := tui.Run(ctx, ed, opts); err != nil {
		logger.Error("editor failed", "error", err)
		fatal("%v", err)
	}
	logger.Info("editor closed")
}
