package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockedit/internal/config"
	"github.com/vovakirdan/blockedit/internal/editor"
	"github.com/vovakirdan/blockedit/internal/platform/tui"
	"github.com/vovakirdan/blockedit/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editor sessions over SSH",
	Long: `Start an SSH server where every connection gets its own editor.

The map to edit is the command given to ssh; without one each user edits
a scratch map. All sessions share the server's map library and save into
it with ctrl+s.

Host key handling:
  - If --host-key (or server.host_key) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.blockedit/host_key

Examples:
  blockedit serve                           # Listen on the configured address
  blockedit serve --ssh :2222               # Listen on port 2222
  blockedit serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh -t localhost -p 23235 arena`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHAddr != "" {
		cfg.Server.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeoutMin = flagIdleTimeout
	}
	logger := newLogger(os.Stderr, cfg)

	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open map library: %v", err)
	}
	defer store.Close()

	palette := newPalette(cfg)
	factory := func(name string) (*editor.Editor, error) {
		m := newMap(cfg)
		doc, err := store.LoadMap(name, cfg.Editor.DefaultZoom)
		switch {
		case err == nil:
			m = doc.Map
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
		return newEditor(cfg, palette, m, logger.With("map", name)), nil
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      cfg.Server.Address,
		HostKeyPath:  config.ExpandPath(cfg.Server.HostKey),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutMin) * time.Minute,
		PauseTimeout: pauseTimeout(cfg),
		Store:        store,
		NewEditor:    factory,
		Logger:       logger,
	})
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting blockedit SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
