package proof

import (
	"sort"

	"github.com/meridian-network/meridian-light/codec"
	"github.com/meridian-network/meridian-light/lib"
	"github.com/meridian-network/meridian-light/lib/crypto"
)

/*
	The layered wire form of a list proof replaces the recursive skeleton with
	three flat fields:

	  {"proof": [{"index": i, "height": h, "hash": "...64 hex..."}],
	   "entries": [[i, value], ...],
	   "length": n}

	Hashes in "proof" are the pruned siblings, addressed by tree position.
	Verification rebuilds the tree bottom-up, merging one layer of pruned hashes
	per height, and wraps the root with the list length.
*/

// HashedEntry is a pruned sibling hash pinned to its tree position
type HashedEntry struct {
	Key  ProofListKey
	Hash crypto.Hash
}

// FlatListProof is a parsed layered list proof
type FlatListProof struct {
	proof       []HashedEntry
	entries     []ListEntry
	entryHashes []crypto.Hash
	length      uint64
}

// ParseFlatListProof() parses the layered wire form from loose JSON.
// valueToBytes supplies the canonical byte encoding of claimed values; entries
// it rejects fail parsing with the encoder error attached.
func ParseFlatListProof(raw any, valueToBytes codec.ValueEncoder) (*FlatListProof, lib.ErrorI) {
	m, ok := asMap(raw)
	if !ok {
		return nil, ErrProofParse(raw)
	}
	proofRaw, ok := m["proof"].([]any)
	if !ok {
		return nil, ErrProofParse(raw)
	}
	entriesRaw, ok := m["entries"].([]any)
	if !ok {
		return nil, ErrProofParse(raw)
	}
	length, ok := fieldUint(m, "length")
	if !ok {
		return nil, ErrProofParse(raw)
	}
	p := &FlatListProof{
		proof:       make([]HashedEntry, 0, len(proofRaw)),
		entries:     make([]ListEntry, 0, len(entriesRaw)),
		entryHashes: make([]crypto.Hash, 0, len(entriesRaw)),
		length:      length,
	}
	for _, e := range entriesRaw {
		pair, ok := e.([]any)
		if !ok || len(pair) != 2 {
			return nil, ErrMalformedEntry(e)
		}
		index, ok := asUint(pair[0])
		if !ok {
			return nil, ErrMalformedEntry(e)
		}
		encoded, err := valueToBytes(pair[1])
		if err != nil {
			return nil, ErrEntryEncoding(e, err)
		}
		p.entries = append(p.entries, ListEntry{Index: index, Value: pair[1]})
		p.entryHashes = append(p.entryHashes, crypto.HashLeaf(encoded))
	}
	for _, e := range proofRaw {
		em, ok := asMap(e)
		if !ok {
			return nil, ErrProofParse(e)
		}
		index, iok := fieldUint(em, "index")
		height, hok := fieldUint(em, "height")
		h, ok := fieldHash(em, "hash")
		if !iok || !hok || !ok {
			return nil, ErrProofParse(e)
		}
		p.proof = append(p.proof, HashedEntry{Key: ProofListKey{Height: height, Index: index}, Hash: h})
	}
	return p, nil
}

// Length() returns the claimed list length
func (p *FlatListProof) Length() uint64 { return p.length }

// Entries() returns the claimed entries as parsed, before any verification
func (p *FlatListProof) Entries() []ListEntry { return p.entries }

// Verify() recomputes the list hash from the layered proof and compares it to
// the trusted expected hash, returning the recovered entries in ascending
// index order
func (p *FlatListProof) Verify(expected crypto.Hash) ([]ListEntry, lib.ErrorI) {
	root, err := p.collect()
	if err != nil {
		return nil, err
	}
	computed := crypto.HashListNode(p.length, root)
	if computed != expected {
		return nil, ErrRootMismatch(expected, computed)
	}
	return p.entries, nil
}

// collect() folds the proof into the merkle root of the element tree,
// uncombined with the list length
func (p *FlatListProof) collect() (crypto.Hash, lib.ErrorI) {
	height := treeHeight(p.length)

	// empty list: nothing may be claimed or pruned, the element tree is all zero
	if height == 0 {
		if len(p.proof) != 0 || len(p.entries) != 0 {
			return crypto.Hash{}, ErrNonEmptyProof()
		}
		return crypto.Hash{}, nil
	}

	// no claimed entries: the proof must be exactly the root hash of the tree
	if len(p.entries) == 0 {
		switch {
		case len(p.proof) > 1:
			return crypto.Hash{}, ErrMissingHash()
		case len(p.proof) == 0:
			return crypto.Hash{}, ErrUnexpectedBranch()
		case p.proof[0].Key != (ProofListKey{Height: height, Index: 0}):
			return crypto.Hash{}, ErrUnexpectedBranch()
		}
		return p.proof[0].Hash, nil
	}

	sort.Slice(p.proof, func(i, j int) bool { return p.proof[i].Key.Less(p.proof[j].Key) })
	p.sortEntries()
	for i := 1; i < len(p.entries); i++ {
		if p.entries[i].Index == p.entries[i-1].Index {
			return crypto.Hash{}, ErrDuplicateKey()
		}
	}
	for i := 1; i < len(p.proof); i++ {
		if p.proof[i].Key == p.proof[i-1].Key {
			return crypto.Hash{}, ErrDuplicateKey()
		}
	}

	// every pruned hash must sit strictly inside the tree: above the leaves,
	// below the root, within the width of its layer
	for _, e := range p.proof {
		if e.Key.Height == 0 {
			return crypto.Hash{}, ErrUnexpectedLeaf()
		}
		if e.Key.Height >= height || e.Key.Index > (p.length-1)>>(e.Key.Height-1) {
			return crypto.Hash{}, ErrUnexpectedBranch()
		}
	}

	layer := make([]HashedEntry, len(p.entries))
	for i, e := range p.entries {
		layer[i] = HashedEntry{Key: ProofListKey{Height: 1, Index: e.Index}, Hash: p.entryHashes[i]}
	}
	hashes := p.proof
	lastIndex := p.length - 1

	for h := uint64(1); h < height; h++ {
		split := 0
		for split < len(hashes) && hashes[split].Key.Height == h {
			split++
		}
		layer = append(layer, hashes[:split]...)
		hashes = hashes[split:]
		sort.Slice(layer, func(i, j int) bool { return layer[i].Key.Less(layer[j].Key) })
		next, err := hashLayer(layer, lastIndex)
		if err != nil {
			return crypto.Hash{}, err
		}
		layer = next
		lastIndex /= 2
	}
	if len(layer) != 1 {
		return crypto.Hash{}, ErrMissingHash()
	}
	return layer[0].Hash, nil
}

func (p *FlatListProof) sortEntries() {
	sort.Sort(&entrySorter{entries: p.entries, hashes: p.entryHashes})
}

// hashLayer() combines a sorted layer pairwise into the layer above. An
// unpaired trailing element is allowed only when it really is the last element
// of an odd-width layer.
func hashLayer(layer []HashedEntry, lastIndex uint64) ([]HashedEntry, lib.ErrorI) {
	next := make([]HashedEntry, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		left := layer[i]
		if i+1 < len(layer) {
			right := layer[i+1]
			if !left.Key.IsLeft() || right.Key.Index != left.Key.Index+1 {
				return nil, ErrMissingHash()
			}
			next = append(next, HashedEntry{Key: left.Key.Parent(), Hash: crypto.HashNode(left.Hash, right.Hash)})
			continue
		}
		if (lastIndex+1)%2 == 0 || left.Key.Index != lastIndex {
			return nil, ErrMissingHash()
		}
		next = append(next, HashedEntry{Key: left.Key.Parent(), Hash: crypto.HashSingleNode(left.Hash)})
	}
	return next, nil
}

// entrySorter keeps claimed entries and their leaf hashes aligned while
// sorting by index
type entrySorter struct {
	entries []ListEntry
	hashes  []crypto.Hash
}

func (s *entrySorter) Len() int           { return len(s.entries) }
func (s *entrySorter) Less(i, j int) bool { return s.entries[i].Index < s.entries[j].Index }
func (s *entrySorter) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.hashes[i], s.hashes[j] = s.hashes[j], s.hashes[i]
}
