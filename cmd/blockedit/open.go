package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockedit/internal/platform/tui"
	"github.com/vovakirdan/blockedit/internal/storage"
)

var openCmd = &cobra.Command{
	Use:   "open [name]",
	Short: "Edit a map from the library",
	Long: `Open a map stored in the library. Without a name, a picker lists the
library. A name that is not stored starts a new map saved under it.

Picker controls:
  Up/Down/j/k  - Navigate
  Enter        - Open
  D            - Delete
  Q/Esc        - Quit

Examples:
  blockedit open
  blockedit open arena`,
	Args: cobra.MaximumNArgs(1),
	Run:  runOpen,
}

func runOpen(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closer := fileLogger(cfg)
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open map library: %v", err)
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		name, err = tui.RunMapPicker(store, width, height)
		if err != nil {
			store.Close()
			fatal("%v", err)
		}
		if name == "" {
			store.Close()
			return
		}
	}

	m := newMap(cfg)
	doc, err := store.LoadMap(name, cfg.Editor.DefaultZoom)
	switch {
	case err == nil:
		m = doc.Map
	case errors.Is(err, storage.ErrNotFound):
		fmt.Printf("Map %q is not in the library; starting a new one.\n", name)
	default:
		store.Close()
		fatal("%v", err)
	}

	runEditor(cfg, m, tui.EditorOptions{
		Name:      name,
		Store:     store,
		Clipboard: tui.SystemClipboard(),
	}, logger, store)
}
