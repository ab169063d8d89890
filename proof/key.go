package proof

import (
	"math/bits"
)

// ProofListKey addresses a node in the binary merkle tree backing a proof list.
// Leaves live at height 1; the root of a tree over n items lives at height
// treeHeight(n).
type ProofListKey struct {
	Height uint64
	Index  uint64
}

// Left() returns the key of the left child
func (k ProofListKey) Left() ProofListKey {
	return ProofListKey{Height: k.Height - 1, Index: k.Index << 1}
}

// Right() returns the key of the right child
func (k ProofListKey) Right() ProofListKey {
	return ProofListKey{Height: k.Height - 1, Index: k.Index<<1 + 1}
}

// Parent() returns the key of the parent node
func (k ProofListKey) Parent() ProofListKey {
	return ProofListKey{Height: k.Height + 1, Index: k.Index >> 1}
}

// IsLeft() returns true if the node is a left child of its parent
func (k ProofListKey) IsLeft() bool { return k.Index%2 == 0 }

// Less() orders keys by height, then by index
func (k ProofListKey) Less(other ProofListKey) bool {
	if k.Height != other.Height {
		return k.Height < other.Height
	}
	return k.Index < other.Index
}

// treeHeight() returns the height of the merkle tree required to hold length
// leaves: zero for an empty list, otherwise ceil(log2(length)) + 1
func treeHeight(length uint64) uint64 {
	if length == 0 {
		return 0
	}
	return uint64(bits.Len64(length-1)) + 1
}
