package proof

import (
	"testing"

	"github.com/meridian-network/meridian-light/codec"
	"github.com/stretchr/testify/require"
)

func TestFlatListProofVerify(t *testing.T) {
	// define test cases
	tests := []struct {
		name    string
		detail  string
		doc     string
		root    string
		indices []uint64
	}{
		{
			name:   "two element present",
			detail: "element 0 claimed with the sibling leaf hash pruned",
			doc: `{"proof": [{"index": 1, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:    twoElemList,
			indices: []uint64{0},
		},
		{
			name:   "six element range",
			detail: "every element claimed, no pruned hashes at all",
			doc: `{"proof": [],
			      "entries": [[0, "` + sixElemValues[0] + `"], [1, "` + sixElemValues[1] + `"], [2, "` + sixElemValues[2] + `"],
			                  [3, "` + sixElemValues[3] + `"], [4, "` + sixElemValues[4] + `"], [5, "` + sixElemValues[5] + `"]],
			      "length": 6}`,
			root:    sixElemList,
			indices: []uint64{0, 1, 2, 3, 4, 5},
		},
		{
			name:   "absence",
			detail: "no entries, the proof pins the root of the whole element tree",
			doc: `{"proof": [{"index": 0, "height": 2, "hash": "` + twoElemRoot + `"}],
			      "entries": [],
			      "length": 2}`,
			root:    twoElemList,
			indices: []uint64{},
		},
		{
			name:    "empty list",
			detail:  "a zero length list needs no proof material at all",
			doc:     `{"proof": [], "entries": [], "length": 0}`,
			root:    emptyListHex,
			indices: []uint64{},
		},
		{
			name:   "unsorted input",
			detail: "entries and hashes may arrive in any order",
			doc: `{"proof": [],
			      "entries": [[5, "` + sixElemValues[5] + `"], [0, "` + sixElemValues[0] + `"], [3, "` + sixElemValues[3] + `"],
			                  [2, "` + sixElemValues[2] + `"], [4, "` + sixElemValues[4] + `"], [1, "` + sixElemValues[1] + `"]],
			      "length": 6}`,
			root:    sixElemList,
			indices: []uint64{0, 1, 2, 3, 4, 5},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// parse the layered wire form
			proof, err := ParseFlatListProof(decodeLoose(t, test.doc), codec.Hex)
			require.NoError(t, err)
			// execute the function call
			entries, err := proof.Verify(mustHash(t, test.root))
			require.NoError(t, err, test.detail)
			// compare got vs expected: entries come back sorted by index
			require.Len(t, entries, len(test.indices))
			for i, entry := range entries {
				require.Equal(t, test.indices[i], entry.Index)
			}
		})
	}
}

func TestFlatListProofRejects(t *testing.T) {
	// define test cases
	tests := []struct {
		name   string
		detail string
		doc    string
		root   string
		error  string
	}{
		{
			name:   "corrupt value",
			detail: "a tampered claimed value changes the computed root",
			doc: `{"proof": [{"index": 1, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "DEADBEEFaeed2fe090e708485d9f4b4676ae6984206cf05efc136d663610e5c9"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "unmatched root hash",
		},
		{
			name:   "wrong expected hash",
			detail: "a valid proof checked against the wrong trusted hash",
			doc: `{"proof": [{"index": 1, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:  "deadbeefa853551eb05470a03c9245483e5a3731b4b558e634908ff356b69857",
			error: "unmatched root hash",
		},
		{
			name:   "non-empty proof for empty list",
			detail: "a zero length list admits no proof material",
			doc: `{"proof": [{"index": 0, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [], "length": 0}`,
			root:  emptyListHex,
			error: "non-empty proof",
		},
		{
			name:   "duplicate entry index",
			detail: "the same element claimed twice",
			doc: `{"proof": [],
			      "entries": [[0, "aa"], [0, "bb"], [1, "cc"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "more than once",
		},
		{
			name:   "duplicate proof position",
			detail: "the same pruned position supplied twice",
			doc: `{"proof": [{"index": 1, "height": 1, "hash": "` + siblingHash + `"},
			                 {"index": 1, "height": 1, "hash": "` + twoElemRoot + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "more than once",
		},
		{
			name:   "hash at leaf height",
			detail: "pruned hashes never sit at height zero",
			doc: `{"proof": [{"index": 1, "height": 0, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "a value in a position",
		},
		{
			name:   "hash above the root",
			detail: "pruned hashes must sit strictly below the tree root",
			doc: `{"proof": [{"index": 0, "height": 2, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "a hash in a position",
		},
		{
			name:   "hash beyond layer width",
			detail: "the pruned index must fit the width of its layer",
			doc: `{"proof": [{"index": 2, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [[0, "` + storedVal + `"]],
			      "length": 2}`,
			root:  twoElemList,
			error: "a hash in a position",
		},
		{
			name:   "missing sibling hash",
			detail: "element 0 claimed but nothing pins element 1",
			doc:    `{"proof": [], "entries": [[0, "` + storedVal + `"]], "length": 2}`,
			root:   twoElemList,
			error:  "not contain enough information",
		},
		{
			name:   "absence with extra hashes",
			detail: "an absence proof is exactly one pinned root",
			doc: `{"proof": [{"index": 0, "height": 1, "hash": "` + siblingHash + `"},
			                 {"index": 1, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [], "length": 2}`,
			root:  twoElemList,
			error: "not contain enough information",
		},
		{
			name:   "absence pinned off the root",
			detail: "a lone pinned hash must sit exactly at the tree root",
			doc: `{"proof": [{"index": 1, "height": 1, "hash": "` + siblingHash + `"}],
			      "entries": [], "length": 2}`,
			root:  twoElemList,
			error: "a hash in a position",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			proof, err := ParseFlatListProof(decodeLoose(t, test.doc), codec.Hex)
			require.NoError(t, err)
			_, err = proof.Verify(mustHash(t, test.root))
			require.ErrorContains(t, err, test.error, test.detail)
		})
	}
}

func TestFlatListProofParseRejects(t *testing.T) {
	// define test cases
	tests := []struct {
		name  string
		doc   string
		error string
	}{
		{name: "missing proof", doc: `{"entries": [], "length": 0}`, error: "could not parse"},
		{name: "missing entries", doc: `{"proof": [], "length": 0}`, error: "could not parse"},
		{name: "missing length", doc: `{"proof": [], "entries": []}`, error: "could not parse"},
		{name: "scalar proof element", doc: `{"proof": [123], "entries": [], "length": 0}`, error: "could not parse"},
		{name: "scalar entry", doc: `{"proof": [], "entries": [123], "length": 0}`, error: "malformed proof entry"},
		{name: "short entry pair", doc: `{"proof": [], "entries": [[0]], "length": 1}`, error: "malformed proof entry"},
		{name: "non-integer index", doc: `{"proof": [], "entries": [["abc", "aa"]], "length": 1}`, error: "malformed proof entry"},
		{name: "undecodable value", doc: `{"proof": [], "entries": [[0, "zz"]], "length": 1}`, error: "could not be encoded"},
		{name: "bad proof hash", doc: `{"proof": [{"index": 0, "height": 1, "hash": 123}], "entries": [], "length": 1}`, error: "could not parse"},
		{name: "negative length", doc: `{"proof": [], "entries": [], "length": -1}`, error: "could not parse"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseFlatListProof(decodeLoose(t, test.doc), codec.Hex)
			require.ErrorContains(t, err, test.error)
		})
	}
}
