package registry

import (
	"sort"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Palette is an immutable view of block types for one editor session:
// the registered types with configured overrides applied.
type Palette struct {
	types []BlockType
	byID  map[core.BlockID]BlockType
}

// NewPalette builds a palette from the registered types. Overrides replace
// registered types with the same ID and add new ones.
func NewPalette(overrides ...BlockType) *Palette {
	byID := make(map[core.BlockID]BlockType)
	for _, bt := range List() {
		byID[bt.ID] = bt
	}
	for _, bt := range overrides {
		if bt.ID == core.NoBlock {
			continue
		}
		if bt.Glyph == 0 {
			bt.Glyph = '█'
		}
		byID[bt.ID] = bt
	}
	p := &Palette{byID: byID, types: make([]BlockType, 0, len(byID))}
	for _, bt := range byID {
		p.types = append(p.types, bt)
	}
	sort.Slice(p.types, func(i, j int) bool {
		return p.types[i].ID < p.types[j].ID
	})
	return p
}

// Types returns the block types sorted by ID.
func (p *Palette) Types() []BlockType {
	out := make([]BlockType, len(p.types))
	copy(out, p.types)
	return out
}

// Lookup returns the type for id.
func (p *Palette) Lookup(id core.BlockID) (BlockType, bool) {
	bt, ok := p.byID[id]
	return bt, ok
}

// KindOf returns the kind of id; unknown ids are KindNormal.
func (p *Palette) KindOf(id core.BlockID) Kind {
	return p.byID[id].Kind
}

// FirstOfKind returns the lowest id of the given kind.
func (p *Palette) FirstOfKind(k Kind) (core.BlockID, bool) {
	for _, bt := range p.types {
		if bt.Kind == k {
			return bt.ID, true
		}
	}
	return core.NoBlock, false
}
