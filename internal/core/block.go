package core

import "strconv"

// BlockID identifies a tile type. NoBlock marks an empty cell.
type BlockID int

// NoBlock is the id of an empty cell.
const NoBlock BlockID = -1

// String returns the id in decimal, or "empty".
func (id BlockID) String() string {
	if id == NoBlock {
		return "empty"
	}
	return strconv.Itoa(int(id))
}

// Block is the content of one grid cell. Options carries per-cell data such
// as the link colour of a teleport.
type Block struct {
	ID      BlockID
	Options string
}

// EmptyBlock is the content of a cleared cell.
var EmptyBlock = Block{ID: NoBlock}

// B is a convenience constructor for a block without options.
func B(id BlockID) Block {
	return Block{ID: id}
}

// IsEmpty reports whether the cell holds no block.
func (b Block) IsEmpty() bool {
	return b.ID == NoBlock
}
