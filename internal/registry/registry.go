// Package registry provides the global registry of block types.
// Built-in types register themselves in init(); configuration can override
// or extend them through a Palette without touching the global set.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Kind classifies block types the editor treats specially.
type Kind int

const (
	KindNormal Kind = iota
	KindStart
	KindTeleport
)

// String returns the config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindTeleport:
		return "teleport"
	default:
		return "normal"
	}
}

// ParseKind resolves a config kind name. The empty string is KindNormal.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "normal":
		return KindNormal, nil
	case "start":
		return KindStart, nil
	case "teleport":
		return KindTeleport, nil
	default:
		return KindNormal, fmt.Errorf("registry: unknown block kind %q", s)
	}
}

// BlockType describes how a block id is named and drawn.
type BlockType struct {
	ID    core.BlockID
	Name  string
	Glyph rune
	Color core.Color
	Kind  Kind
}

var (
	types = make(map[core.BlockID]BlockType)
	mu    sync.RWMutex
)

// Register adds a block type to the registry.
// Panics if a type with the same ID is already registered.
func Register(bt BlockType) {
	mu.Lock()
	defer mu.Unlock()

	if bt.ID == core.NoBlock {
		panic("registry: cannot register the empty block id")
	}
	if _, exists := types[bt.ID]; exists {
		panic(fmt.Sprintf("registry: block %d already registered", bt.ID))
	}
	types[bt.ID] = bt
}

// List returns all registered block types, sorted by ID.
func List() []BlockType {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BlockType, 0, len(types))
	for _, bt := range types {
		result = append(result, bt)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the registered type for id.
func Lookup(id core.BlockID) (BlockType, bool) {
	mu.RLock()
	defer mu.RUnlock()

	bt, ok := types[id]
	return bt, ok
}
