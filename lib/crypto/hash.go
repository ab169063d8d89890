package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
)

const (
	HashSize = sha256.Size
)

/*
	Every hash in an authenticated index is domain separated: the first byte of the
	preimage is a tag identifying the kind of node being hashed. The tag prevents a
	value hash from ever colliding with a branch hash even when their payloads match.

	h = sha-256( tag || payload )
*/

const (
	TagBlob           byte = 0 // a stored value
	TagListBranchNode byte = 1 // an inner node of the list merkle tree
	TagListNode       byte = 2 // the list object itself (length || merkle root)
	TagMapNode        byte = 3 // the map object itself (patricia root)
	TagMapBranchNode  byte = 4 // an inner node of the map patricia trie
)

// Hash is a 32-byte SHA-256 digest. It is comparable and immutable.
type Hash [HashSize]byte

// HashFromBytes() constructs a Hash from a byte slice of exactly HashSize bytes
func HashFromBytes(bz []byte) (h Hash, err error) {
	if len(bz) != HashSize {
		return h, fmt.Errorf("wrong hash length: expected %d, got %d", HashSize, len(bz))
	}
	copy(h[:], bz)
	return h, nil
}

// HashFromString() constructs a Hash from a 64-character hexadecimal string
func HashFromString(s string) (h Hash, err error) {
	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	return HashFromBytes(bz)
}

// Bytes() returns the digest as a byte slice
func (h Hash) Bytes() []byte { return h[:] }

// String() returns the hex representation of the digest
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Hasher() returns the global hashing algorithm used
func Hasher() hash.Hash { return sha256.New() }

// Sum() executes the global hashing algorithm on input bytes without any tag
func Sum(msg []byte) Hash { return sha256.Sum256(msg) }

// HashLeaf() hashes a stored value: h = sha-256( Blob || value )
func HashLeaf(value []byte) Hash {
	return tagged(TagBlob, value)
}

// HashNode() hashes a list tree node with two children: h = sha-256( ListBranchNode || left || right )
func HashNode(left, right Hash) Hash {
	h := Hasher()
	h.Write([]byte{TagListBranchNode})
	h.Write(left[:])
	h.Write(right[:])
	return sum(h)
}

// HashSingleNode() hashes a list tree node with a left child only: h = sha-256( ListBranchNode || left )
func HashSingleNode(left Hash) Hash {
	return tagged(TagListBranchNode, left[:])
}

// HashListNode() hashes the list object: h = sha-256( ListNode || length as le-u64 || merkle root )
func HashListNode(length uint64, merkleRoot Hash) Hash {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], length)
	h := Hasher()
	h.Write([]byte{TagListNode})
	h.Write(buf[:])
	h.Write(merkleRoot[:])
	return sum(h)
}

// HashMapNode() hashes the map object: h = sha-256( MapNode || patricia root )
func HashMapNode(root Hash) Hash {
	return tagged(TagMapNode, root[:])
}

// HashMapBranch() hashes an encoded map branch node: h = sha-256( MapBranchNode || branch )
func HashMapBranch(branch []byte) Hash {
	return tagged(TagMapBranchNode, branch)
}

// HashSingleEntryMap() hashes a map holding exactly one entry: h = sha-256( MapBranchNode || path || child )
func HashSingleEntryMap(path []byte, child Hash) Hash {
	h := Hasher()
	h.Write([]byte{TagMapBranchNode})
	h.Write(path)
	h.Write(child[:])
	return sum(h)
}

// EmptyMapHash() returns the fixed hash of a map with no entries
func EmptyMapHash() Hash {
	return HashMapNode(Hash{})
}

func tagged(tag byte, payload []byte) Hash {
	h := Hasher()
	h.Write([]byte{tag})
	h.Write(payload)
	return sum(h)
}

func sum(h hash.Hash) (out Hash) {
	copy(out[:], h.Sum(nil))
	return
}
