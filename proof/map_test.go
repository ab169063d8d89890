package proof

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/meridian-network/meridian-light/codec"
	"github.com/stretchr/testify/require"
)

const (
	emptyMapHex       = "7324b5c72b51bb5d4c180f1109cfd347b60473882145841c39f3e584576296f9"
	singleEntryMapHex = "d4aaa8d6f1bebce46e5af4fb619ece42f1c12b8c865993ab89689feb90aac76c"
	indexMapHex       = "3ccac1646fbbbc7e22a70b2a426c0d22bdde14a03f4ffc3547207245a4774afc"
)

// indexMapDoc proves one index coordinate entry against an aggregated index map,
// with three pruned subtrees alongside it
const indexMapDoc = `{
	"entries": [
		{"key": {"tag": 3, "group_id": 1024, "index_id": 0},
		 "value": "d24f95722fb68800b586148232953a1453a5b8dee7af2d213d96e5ce63516380"}
	],
	"proof": [
		{"path": "0", "hash": "9e39ec70d792124cc0039d5b25ca8a00c7e26e7063994deb01ca940aa9e68128"},
		{"path": "1011001101100100010001101010100001110010101101100110111001001101010011011001110101110100000011100000001101010011110000110011001110101111001011001001111111101101011100101010110100011101000110011001100000110111000010100000100111000001000010110101000000001010",
		 "hash": "23e07283aafec41b627fef86d058517fbf820c50b05ec683fcf2b1504605ad87"},
		{"path": "1011110000101000001000110111110110110011111111001111101001101111011010100101101100111000010111100110000110100011100100100011001010001111110000101010001101000010100011000011011101110100011100011101111011100001011101011000000010011001101100001000111000000010",
		 "hash": "3fe2e4c293ecc21180c2aaaeec88adf5fe8e5371ef26466d76c7fbc6ab1d416a"},
		{"path": "11", "hash": "96f00895570f12ef4b0294d3cc667fcbb3b235197ac11abca280c1be2922ca31"}
	]
}`

// indexCoordinateKey packs an index coordinate key as big-endian u16 tag,
// u32 group id, u16 index id
func indexCoordinateKey(key any) ([]byte, error) {
	m, ok := key.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("index coordinate key must be an object, got %T", key)
	}
	tag, tok := asUint(m["tag"])
	groupID, gok := asUint(m["group_id"])
	indexID, iok := asUint(m["index_id"])
	if !tok || !gok || !iok {
		return nil, fmt.Errorf("incomplete index coordinate key: %v", key)
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint16(out[0:2], uint16(tag))
	binary.BigEndian.PutUint32(out[2:6], uint32(groupID))
	binary.BigEndian.PutUint16(out[6:8], uint16(indexID))
	return out, nil
}

func TestMapProofEmpty(t *testing.T) {
	// parse a proof carrying no entries and no pruned subtrees
	proof, err := ParseMapProof(decodeLoose(t, `{"entries": [], "proof": []}`), codec.Hex, codec.Hex)
	require.NoError(t, err)
	// execute the function call
	checked, err := proof.Check()
	require.NoError(t, err)
	// an empty proof commits to the empty map hash
	require.Equal(t, emptyMapHex, checked.RootHash().String())
	require.Empty(t, checked.AllEntries())
	// the same proof verifies against that hash
	_, err = proof.Verify(mustHash(t, emptyMapHex))
	require.NoError(t, err)
}

func TestMapProofSingleEntry(t *testing.T) {
	// a map holding exactly one entry folds through the single entry form
	doc := `{"entries": [{"key": "cc", "value": "aaaaaaaa"}], "proof": []}`
	proof, err := ParseMapProof(decodeLoose(t, doc), codec.Hex, codec.Hex)
	require.NoError(t, err)
	checked, err := proof.Check()
	require.NoError(t, err)
	require.Equal(t, singleEntryMapHex, checked.RootHash().String())
	// the entry partitions as present
	require.Len(t, checked.Entries(), 1)
	require.Empty(t, checked.MissingKeys())
	require.Equal(t, "cc", checked.Entries()[0].Key)
}

func TestMapProofSeveralProofEntries(t *testing.T) {
	// parse the proof with a struct packed key encoder and hex values
	proof, err := ParseMapProof(decodeLoose(t, indexMapDoc), indexCoordinateKey, codec.Hex)
	require.NoError(t, err)
	// execute the function call
	checked, err := proof.Check()
	require.NoError(t, err)
	// compare got vs expected
	require.Equal(t, indexMapHex, checked.RootHash().String())
	require.Len(t, checked.AllEntries(), 1)
	require.False(t, checked.AllEntries()[0].Missing)
	// checking twice computes the same root
	again, err := proof.Check()
	require.NoError(t, err)
	require.Equal(t, checked.RootHash(), again.RootHash())
	// the proof verifies against the computed root and nothing else
	_, err = proof.Verify(mustHash(t, indexMapHex))
	require.NoError(t, err)
	_, err = proof.Verify(mustHash(t, emptyMapHex))
	require.ErrorContains(t, err, "unmatched root hash")
}

func TestMapProofMissingKey(t *testing.T) {
	// a missing key contributes nothing to the fold; it is attested only by the
	// aggregate root matching
	doc := `{
		"entries": [{"missing": {"tag": 3, "group_id": 1024, "index_id": 0}}],
		"proof": [
			{"path": "0", "hash": "90c6641741113ce7cc75e5aeadeefdde21a123088e5b3650f6090117bbde543f"},
			{"path": "1011001101100100010001101010100001110010101101100110111001001101010011011001110101110100000011100000001101010011110000110011001110101111001011001001111111101101011100101010110100011101000110011001100000110111000010100000100111000001000010110101000000001010",
			 "hash": "e229a42f60f34c1cfdd5bf8e2b77efe8a39b479c6acf711b80766c87b5cbde90"},
			{"path": "1011110000101000001000110111110110110011111111001111101001101111011010100101101100111000010111100110000110100011100100100011001010001111110000101010001101000010100011000011011101110100011100011101111011100001011101011000000010011001101100001000111000000010",
			 "hash": "d705c7adc905020df57795a6f0c36e15f7442708761af06d0679203448ad888c"},
			{"path": "11", "hash": "f160a482bbd2ba5116906c30f02a55f5813a9799d23d0581e43a2c388b96d075"}
		]
	}`
	proof, err := ParseMapProof(decodeLoose(t, doc), indexCoordinateKey, codec.Hex)
	require.NoError(t, err)
	checked, err := proof.Check()
	require.NoError(t, err)
	// the entry partitions as missing
	require.Len(t, checked.AllEntries(), 1)
	require.Empty(t, checked.Entries())
	require.Len(t, checked.MissingKeys(), 1)
	require.True(t, checked.MissingKeys()[0].Missing)
}

func TestMapProofCheckRejects(t *testing.T) {
	// pre-define a valid pruned subtree hash to reuse across cases
	h := "9e39ec70d792124cc0039d5b25ca8a00c7e26e7063994deb01ca940aa9e68128"
	// define test cases
	tests := []struct {
		name   string
		detail string
		doc    string
		error  string
	}{
		{
			name:   "duplicate path",
			detail: "the same trie position pruned twice",
			doc:    `{"entries": [], "proof": [{"path": "0", "hash": "` + h + `"}, {"path": "0", "hash": "` + h + `"}]}`,
			error:  "duplicate path",
		},
		{
			name:   "embedded path",
			detail: "one pruned subtree inside another",
			doc:    `{"entries": [], "proof": [{"path": "0", "hash": "` + h + `"}, {"path": "01", "hash": "` + h + `"}]}`,
			error:  "embedded path",
		},
		{
			name:   "non-terminal single node",
			detail: "a lone fragment must be a full leaf path",
			doc:    `{"entries": [], "proof": [{"path": "0", "hash": "` + h + `"}]}`,
			error:  "non-terminal single node",
		},
		{
			name:   "undecodable key",
			detail: "a key the encoder rejects fails the check",
			doc:    `{"entries": [{"key": "zz", "value": "aaaaaaaa"}], "proof": []}`,
			error:  "could not be encoded",
		},
		{
			name:   "undecodable value",
			detail: "a value the encoder rejects fails the check",
			doc:    `{"entries": [{"key": "cc", "value": "zz"}], "proof": []}`,
			error:  "could not be encoded",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			proof, err := ParseMapProof(decodeLoose(t, test.doc), codec.Hex, codec.Hex)
			require.NoError(t, err)
			_, err = proof.Check()
			require.ErrorContains(t, err, test.error, test.detail)
		})
	}
}

func TestMapProofParseRejects(t *testing.T) {
	// define test cases
	tests := []struct {
		name  string
		doc   string
		error string
	}{
		{name: "missing entries", doc: `{"proof": []}`, error: "malformed proof entry"},
		{name: "missing proof", doc: `{"entries": []}`, error: "malformed proof entry"},
		{name: "entry without value", doc: `{"entries": [{"key": "cc"}], "proof": []}`, error: "malformed proof entry"},
		{name: "entry without key", doc: `{"entries": [{"value": "aa"}], "proof": []}`, error: "malformed proof entry"},
		{name: "scalar entry", doc: `{"entries": [5], "proof": []}`, error: "malformed proof entry"},
		{name: "proof without path", doc: `{"entries": [], "proof": [{"hash": "` + emptyMapHex + `"}]}`, error: "malformed proof entry"},
		{name: "proof without hash", doc: `{"entries": [], "proof": [{"path": "01"}]}`, error: "malformed proof entry"},
		{name: "bad path symbol", doc: `{"entries": [], "proof": [{"path": "012", "hash": "` + emptyMapHex + `"}]}`, error: "unexpected path symbol"},
		{name: "empty path", doc: `{"entries": [], "proof": [{"path": "", "hash": "` + emptyMapHex + `"}]}`, error: "incorrect path length"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseMapProof(decodeLoose(t, test.doc), codec.Hex, codec.Hex)
			require.ErrorContains(t, err, test.error)
		})
	}
}
