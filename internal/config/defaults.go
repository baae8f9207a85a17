package config

import (
	_ "embed"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// Default returns the hard-coded configuration used when no file and no
// embedded default can be read.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			FPS:            30,
			ZoomLevels:     []int{1, 2, 3, 4},
			DefaultZoom:    2,
			HistoryLimit:   500,
			Overwrite:      true,
			PauseTimeoutMS: 2000,
		},
		Map: MapConfig{
			Width:  100,
			Height: 60,
		},
		Storage: StorageConfig{
			DBPath: "~/.blockedit/maps.db",
		},
		Server: ServerConfig{
			Address:        ":23235",
			HostKey:        ".ssh/blockedit_ed25519",
			IdleTimeoutMin: 30,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.blockedit/blockedit.log",
		},
	}
}
