package mapfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockedit/internal/core"
)

// stampVersion marks clipboard text produced by EncodeStamp.
const stampVersion = 1

type stampCell struct {
	DX      int    `yaml:"dx"`
	DY      int    `yaml:"dy"`
	ID      int    `yaml:"id"`
	Options string `yaml:"options,omitempty"`
}

type stampText struct {
	Version int         `yaml:"blockedit_stamp"`
	Cells   []stampCell `yaml:"cells"`
}

// EncodeStamp renders a stamp as text for the system clipboard.
func EncodeStamp(s core.Stamp) (string, error) {
	st := stampText{Version: stampVersion, Cells: make([]stampCell, len(s))}
	for i, c := range s {
		st.Cells[i] = stampCell{DX: c.Offset.X, DY: c.Offset.Y, ID: int(c.Block.ID), Options: c.Block.Options}
	}
	out, err := yaml.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("mapfile: encode stamp: %w", err)
	}
	return string(out), nil
}

// DecodeStamp parses text produced by EncodeStamp. Offsets must be
// non-negative.
func DecodeStamp(text string) (core.Stamp, error) {
	var st stampText
	if err := yaml.Unmarshal([]byte(text), &st); err != nil {
		return nil, fmt.Errorf("mapfile: decode stamp: %w", err)
	}
	if st.Version != stampVersion {
		return nil, fmt.Errorf("mapfile: decode stamp: not a stamp (version %d)", st.Version)
	}
	out := make(core.Stamp, 0, len(st.Cells))
	for _, c := range st.Cells {
		if c.DX < 0 || c.DY < 0 {
			return nil, fmt.Errorf("mapfile: decode stamp: negative offset (%d,%d)", c.DX, c.DY)
		}
		id := core.BlockID(c.ID)
		if c.ID < 0 {
			id = core.NoBlock
		}
		out = append(out, core.StampCell{Offset: core.GI(c.DX, c.DY), Block: core.Block{ID: id, Options: c.Options}})
	}
	return out, nil
}
