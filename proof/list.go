package proof

import (
	"github.com/meridian-network/meridian-light/codec"
	"github.com/meridian-network/meridian-light/lib"
	"github.com/meridian-network/meridian-light/lib/crypto"
)

// ListEntry is a recovered list element: the index it occupies and the claimed
// value exactly as it appeared on the wire
type ListEntry struct {
	Index uint64
	Value any
}

/*
	The recursive wire form of a list proof is a sparse skeleton of the merkle
	tree: branches the verifier must walk are nested objects, pruned siblings are
	bare hashes, and claimed values sit in leaves. An absence proof is a single
	top-level node carrying the list length and merkle root.

	Nodes carry no explicit variant tag; each node is classified against five
	mutually exclusive shapes in fixed priority order.
*/

type listNode interface{ isListNode() }

// leftNode descends left; the pruned right sibling hash may be omitted when the
// node has a single child
type leftNode struct {
	left  listNode
	right *crypto.Hash
}

// rightNode descends right past the pruned left sibling hash
type rightNode struct {
	left  crypto.Hash
	right listNode
}

// fullNode descends into both children
type fullNode struct {
	left  listNode
	right listNode
}

// leafNode carries a claimed value and its canonical byte encoding
type leafNode struct {
	value any
	raw   []byte
}

// absentNode proves an index is beyond the list: length and merkle root of the
// whole list, legal only as the sole top-level node
type absentNode struct {
	length uint64
	hash   crypto.Hash
}

func (*leftNode) isListNode()   {}
func (*rightNode) isListNode()  {}
func (*fullNode) isListNode()   {}
func (*leafNode) isListNode()   {}
func (*absentNode) isListNode() {}

// ListProof is a parsed recursive list proof, immutable once constructed
type ListProof struct {
	root listNode
}

// ParseListProof() parses the recursive wire form from loose JSON. valueToBytes
// supplies the canonical byte encoding of claimed values; a value it rejects
// disqualifies the node from being a leaf.
func ParseListProof(raw any, valueToBytes codec.ValueEncoder) (*ListProof, lib.ErrorI) {
	root, err := parseListNode(raw, valueToBytes, true)
	if err != nil {
		return nil, err
	}
	return &ListProof{root: root}, nil
}

// parseListNode() classifies a loose node against the five shapes in priority
// order: Left, Right, Full, Leaf, Absent (top level only)
func parseListNode(raw any, enc codec.ValueEncoder, top bool) (listNode, lib.ErrorI) {
	m, ok := asMap(raw)
	if !ok {
		return nil, ErrProofParse(raw)
	}
	lm, leftIsMap := fieldMap(m, "left")
	if leftIsMap {
		if rh, ok := fieldHashOrNil(m, "right"); ok {
			left, err := parseListNode(lm, enc, false)
			if err != nil {
				return nil, err
			}
			return &leftNode{left: left, right: rh}, nil
		}
	}
	if lh, ok := fieldHash(m, "left"); ok {
		if rm, ok := fieldMap(m, "right"); ok {
			right, err := parseListNode(rm, enc, false)
			if err != nil {
				return nil, err
			}
			return &rightNode{left: lh, right: right}, nil
		}
	}
	if leftIsMap {
		if rm, ok := fieldMap(m, "right"); ok {
			left, err := parseListNode(lm, enc, false)
			if err != nil {
				return nil, err
			}
			right, err := parseListNode(rm, enc, false)
			if err != nil {
				return nil, err
			}
			return &fullNode{left: left, right: right}, nil
		}
	}
	if v, ok := m["val"]; ok && v != nil {
		if rawBytes, err := enc(v); err == nil {
			return &leafNode{value: v, raw: rawBytes}, nil
		}
	}
	if top {
		if length, ok := fieldUint(m, "length"); ok {
			if h, ok := fieldHash(m, "hash"); ok {
				return &absentNode{length: length, hash: h}, nil
			}
		}
	}
	return nil, ErrProofParse(raw)
}

// Verify() recomputes the list hash from the proof skeleton and compares it to
// the trusted expected hash. On success it returns the recovered entries in
// ascending index order; an absence proof recovers no entries.
func (p *ListProof) Verify(length uint64, expected crypto.Hash) ([]ListEntry, lib.ErrorI) {
	if a, ok := p.root.(*absentNode); ok {
		computed := crypto.HashListNode(a.length, a.hash)
		if computed != expected {
			return nil, ErrRootMismatch(expected, computed)
		}
		return []ListEntry{}, nil
	}
	height := treeHeight(length)
	if height == 0 {
		height = 1
	}
	entries := make([]ListEntry, 0)
	root, err := collectTree(p.root, ProofListKey{Height: height}, &entries)
	if err != nil {
		return nil, err
	}
	computed := crypto.HashListNode(length, root)
	if computed != expected {
		return nil, ErrRootMismatch(expected, computed)
	}
	return entries, nil
}

// collectTree() folds the skeleton into the merkle root, collecting claimed
// values on the way down. Descent order is left to right, so entries come out
// in ascending index order.
func collectTree(node listNode, key ProofListKey, out *[]ListEntry) (crypto.Hash, lib.ErrorI) {
	if key.Height == 0 {
		return crypto.Hash{}, ErrUnexpectedBranch()
	}
	switch n := node.(type) {
	case *fullNode:
		left, err := collectTree(n.left, key.Left(), out)
		if err != nil {
			return crypto.Hash{}, err
		}
		right, err := collectTree(n.right, key.Right(), out)
		if err != nil {
			return crypto.Hash{}, err
		}
		return crypto.HashNode(left, right), nil
	case *leftNode:
		left, err := collectTree(n.left, key.Left(), out)
		if err != nil {
			return crypto.Hash{}, err
		}
		if n.right != nil {
			return crypto.HashNode(left, *n.right), nil
		}
		return crypto.HashSingleNode(left), nil
	case *rightNode:
		right, err := collectTree(n.right, key.Right(), out)
		if err != nil {
			return crypto.Hash{}, err
		}
		return crypto.HashNode(n.left, right), nil
	case *leafNode:
		if key.Height > 1 {
			return crypto.Hash{}, ErrUnexpectedLeaf()
		}
		*out = append(*out, ListEntry{Index: key.Index, Value: n.value})
		return crypto.HashLeaf(n.raw), nil
	default:
		// absent nodes never nest; the parser guarantees this
		return crypto.Hash{}, ErrProofParse(node)
	}
}
