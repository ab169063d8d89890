package proof

import (
	"sort"

	"github.com/meridian-network/meridian-light/codec"
	"github.com/meridian-network/meridian-light/lib"
	"github.com/meridian-network/meridian-light/lib/crypto"
)

// OptionalEntry is a claimed map entry: either a key/value pair the proof
// shows as present or a key the proof shows as missing
type OptionalEntry struct {
	Key     any
	Value   any
	Missing bool
}

// MapProofEntry is a pruned subtree of the map trie: the path to its root and
// its hash
type MapProofEntry struct {
	Path ProofPath
	Hash crypto.Hash
}

// BranchNode is an interior trie node restored during verification. Its hash
// commits to both child hashes and both child paths in compressed form.
type BranchNode struct {
	LeftHash  crypto.Hash
	RightHash crypto.Hash
	LeftPath  ProofPath
	RightPath ProofPath
}

// ObjectHash() hashes the branch as left hash, right hash, then both paths
// compressed
func (b BranchNode) ObjectHash() crypto.Hash {
	buf := make([]byte, 0, 2*crypto.HashSize+2*pathSize)
	buf = append(buf, b.LeftHash.Bytes()...)
	buf = append(buf, b.RightHash.Bytes()...)
	buf = append(buf, b.LeftPath.BytesCompressed()...)
	buf = append(buf, b.RightPath.BytesCompressed()...)
	return crypto.HashMapBranch(buf)
}

// MapProof is a parsed map proof: claimed entries plus the pruned subtrees
// needed to rebuild the trie root around them
type MapProof struct {
	entries      []OptionalEntry
	proof        []MapProofEntry
	keyToBytes   codec.KeyEncoder
	valueToBytes codec.ValueEncoder
}

// ParseMapProof() parses a map proof from loose JSON:
//
//	{"entries": [{"key": k, "value": v} | {"missing": k}],
//	 "proof":   [{"path": "01...", "hash": "...64 hex..."}]}
//
// Key and value encoders are captured now and applied during Check, so a proof
// over undecodable values still parses.
func ParseMapProof(raw any, keyToBytes codec.KeyEncoder, valueToBytes codec.ValueEncoder) (*MapProof, lib.ErrorI) {
	m, ok := asMap(raw)
	if !ok {
		return nil, ErrProofParse(raw)
	}
	entriesRaw, ok := m["entries"].([]any)
	if !ok {
		return nil, ErrMalformedEntry(raw)
	}
	proofRaw, ok := m["proof"].([]any)
	if !ok {
		return nil, ErrMalformedEntry(raw)
	}
	p := &MapProof{
		entries:      make([]OptionalEntry, 0, len(entriesRaw)),
		proof:        make([]MapProofEntry, 0, len(proofRaw)),
		keyToBytes:   keyToBytes,
		valueToBytes: valueToBytes,
	}
	for _, e := range entriesRaw {
		entry, err := parseOptionalEntry(e)
		if err != nil {
			return nil, err
		}
		p.entries = append(p.entries, entry)
	}
	for _, e := range proofRaw {
		em, ok := asMap(e)
		if !ok {
			return nil, ErrMalformedEntry(e)
		}
		bits, ok := em["path"].(string)
		if !ok {
			return nil, ErrMalformedEntry(e)
		}
		h, ok := fieldHash(em, "hash")
		if !ok {
			return nil, ErrMalformedEntry(e)
		}
		path, err := ParsePath(bits)
		if err != nil {
			return nil, err
		}
		p.proof = append(p.proof, MapProofEntry{Path: path, Hash: h})
	}
	return p, nil
}

func parseOptionalEntry(raw any) (OptionalEntry, lib.ErrorI) {
	m, ok := asMap(raw)
	if !ok {
		return OptionalEntry{}, ErrMalformedEntry(raw)
	}
	if k, ok := m["missing"]; ok && k != nil {
		return OptionalEntry{Key: k, Missing: true}, nil
	}
	k, kok := m["key"]
	v, vok := m["value"]
	if !kok || k == nil || !vok || v == nil {
		return OptionalEntry{}, ErrMalformedEntry(raw)
	}
	return OptionalEntry{Key: k, Value: v}, nil
}

// Check() recomputes the map hash committed to by the proof. Present entries
// become leaf fragments (path from the hashed key bytes, hash from the value
// bytes); missing entries contribute nothing and are attested only by the
// aggregate root matching. The caller still has to compare RootHash against a
// trusted value, or use Verify.
func (p *MapProof) Check() (*CheckedMapProof, lib.ErrorI) {
	merged := make([]MapProofEntry, 0, len(p.proof)+len(p.entries))
	merged = append(merged, p.proof...)
	for _, entry := range p.entries {
		if entry.Missing {
			continue
		}
		keyBytes, err := p.keyToBytes(entry.Key)
		if err != nil {
			return nil, ErrEntryEncoding(entry.Key, err)
		}
		valueBytes, err := p.valueToBytes(entry.Value)
		if err != nil {
			return nil, ErrEntryEncoding(entry.Value, err)
		}
		merged = append(merged, MapProofEntry{
			Path: pathFromKey(crypto.Sum(keyBytes).Bytes()),
			Hash: crypto.HashLeaf(valueBytes),
		})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Path.Less(merged[j].Path) })
	if err := checkPaths(merged); err != nil {
		return nil, err
	}
	root, err := collectMap(merged)
	if err != nil {
		return nil, err
	}
	return &CheckedMapProof{entries: p.entries, rootHash: crypto.HashMapNode(root)}, nil
}

// Verify() runs Check and compares the computed root against the trusted
// expected hash
func (p *MapProof) Verify(expected crypto.Hash) (*CheckedMapProof, lib.ErrorI) {
	checked, err := p.Check()
	if err != nil {
		return nil, err
	}
	if checked.rootHash != expected {
		return nil, ErrRootMismatch(expected, checked.rootHash)
	}
	return checked, nil
}

// checkPaths() validates a sorted fragment list: no path may repeat and no
// path may extend another, since pruned subtrees must be disjoint
func checkPaths(entries []MapProofEntry) lib.ErrorI {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Path, entries[i].Path
		switch {
		case prev.Equal(cur):
			return ErrDuplicatePath(cur)
		case cur.Less(prev):
			return ErrInvalidOrdering(prev, cur)
		case cur.StartsWith(prev):
			return ErrEmbeddedPath(prev, cur)
		}
	}
	return nil
}

/*
	collectMap() computes the root hash of the trie backing the sorted
	fragments without restoring the tree in full. Fragments are added in path
	order, so only the rightmost nodes of the partially built tree (the right
	contour) can change on each step: zero or more contour nodes fold into
	branches, then the new fragment joins the contour.
*/
func collectMap(entries []MapProofEntry) (crypto.Hash, lib.ErrorI) {
	switch len(entries) {
	case 0:
		return crypto.Hash{}, nil
	case 1:
		if !entries[0].Path.IsLeaf() {
			return crypto.Hash{}, ErrNonTerminalNode(entries[0].Path)
		}
		return crypto.HashSingleEntryMap(entries[0].Path.Bytes(), entries[0].Hash), nil
	}

	commonPrefix := func(a, b ProofPath) (ProofPath, lib.ErrorI) {
		return a.Prefix(a.CommonPrefixLen(b))
	}

	contour := []MapProofEntry{entries[0], entries[1]}
	lastPrefix, err := commonPrefix(entries[0].Path, entries[1].Path)
	if err != nil {
		return crypto.Hash{}, err
	}

	// fold the two topmost contour entries into a branch rooted at lastPrefix
	fold := func() lib.ErrorI {
		last := contour[len(contour)-1]
		penultimate := contour[len(contour)-2]
		branch := BranchNode{
			LeftHash:  penultimate.Hash,
			RightHash: last.Hash,
			LeftPath:  penultimate.Path,
			RightPath: last.Path,
		}
		contour = contour[:len(contour)-2]
		contour = append(contour, MapProofEntry{Path: lastPrefix, Hash: branch.ObjectHash()})
		if len(contour) > 1 {
			prefix, err := commonPrefix(contour[len(contour)-2].Path, lastPrefix)
			if err != nil {
				return err
			}
			lastPrefix = prefix
		}
		return nil
	}

	for _, entry := range entries[2:] {
		newPrefix, err := commonPrefix(contour[len(contour)-1].Path, entry.Path)
		if err != nil {
			return crypto.Hash{}, err
		}
		// a shorter prefix means the new fragment diverges above the current
		// contour top, so everything below the divergence point folds away
		for len(contour) > 1 && newPrefix.Len() < lastPrefix.Len() {
			if err := fold(); err != nil {
				return crypto.Hash{}, err
			}
		}
		contour = append(contour, entry)
		lastPrefix = newPrefix
	}
	for len(contour) > 1 {
		if err := fold(); err != nil {
			return crypto.Hash{}, err
		}
	}
	return contour[0].Hash, nil
}

// CheckedMapProof is the result of a successful Check: the computed map root
// and the claimed entries, queryable by presence
type CheckedMapProof struct {
	entries  []OptionalEntry
	rootHash crypto.Hash
}

// Entries() returns the entries the proof shows as present
func (c *CheckedMapProof) Entries() []OptionalEntry {
	out := make([]OptionalEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if !e.Missing {
			out = append(out, e)
		}
	}
	return out
}

// MissingKeys() returns the entries the proof shows as missing
func (c *CheckedMapProof) MissingKeys() []OptionalEntry {
	out := make([]OptionalEntry, 0)
	for _, e := range c.entries {
		if e.Missing {
			out = append(out, e)
		}
	}
	return out
}

// AllEntries() returns every claimed entry, present and missing
func (c *CheckedMapProof) AllEntries() []OptionalEntry { return c.entries }

// RootHash() returns the computed map hash
func (c *CheckedMapProof) RootHash() crypto.Hash { return c.rootHash }
