package proof

import (
	"fmt"
	"strings"

	"github.com/meridian-network/meridian-light/lib"
	"github.com/meridian-network/meridian-light/lib/crypto"
)

const (
	// KeySize is the byte length of a full patricia key (a SHA-256 digest)
	KeySize = crypto.HashSize
	// pathSize is the fixed wire size of a serialized path: kind byte, key, length byte
	pathSize = KeySize + 2
	// maxPathBits is the bit length of a full (leaf) path
	maxPathBits = KeySize * 8
)

const (
	kindBranch byte = 0
	kindLeaf   byte = 1

	kindPos = 0
	keyPos  = 1
	lenPos  = KeySize + 1
)

// ProofPath is a view over the bits of a patricia key. A leaf path spans all 256
// bits of the key; a branch path is truncated to End() bits. Bit i of the path is
// bit (i % 8) of key byte (i / 8) - the bit order is not reversed within a byte.
// A path is immutable once constructed.
type ProofPath struct {
	data  [pathSize]byte
	start int
}

// PathFromBytes() builds a leaf path spanning the full key
func PathFromBytes(key []byte) (p ProofPath, err lib.ErrorI) {
	if len(key) != KeySize {
		return p, ErrInvalidPathData(len(key))
	}
	return pathFromKey(key), nil
}

// pathFromKey() builds a leaf path from exactly KeySize bytes without validation
func pathFromKey(key []byte) (p ProofPath) {
	p.data[kindPos] = kindLeaf
	copy(p.data[keyPos:keyPos+KeySize], key)
	return
}

// ParsePath() parses a path from a string of '0' and '1' characters. A string of
// exactly 256 characters yields a leaf, anything shorter yields a branch.
func ParsePath(bits string) (p ProofPath, err lib.ErrorI) {
	length := len(bits)
	if length == 0 || length > maxPathBits {
		return p, ErrInvalidPath(bits, "incorrect path length")
	}
	var key [KeySize]byte
	for i := 0; i < length; i++ {
		switch bits[i] {
		case '0':
		case '1':
			key[i/8] |= 1 << (i % 8)
		default:
			return p, ErrInvalidPath(bits, "unexpected path symbol")
		}
	}
	p = pathFromKey(key[:])
	if length == maxPathBits {
		return p, nil
	}
	return p.Prefix(length)
}

// IsLeaf() returns true if the path spans the full key
func (p ProofPath) IsLeaf() bool { return p.data[kindPos] == kindLeaf }

// Start() returns the index of the first meaningful bit
func (p ProofPath) Start() int { return p.start }

// End() returns the index one past the last meaningful bit
func (p ProofPath) End() int {
	if p.IsLeaf() {
		return maxPathBits
	}
	return int(p.data[lenPos])
}

// Len() returns the number of meaningful bits
func (p ProofPath) Len() int { return p.End() - p.Start() }

// RawKey() returns a copy of the stored key bytes
func (p ProofPath) RawKey() []byte {
	key := make([]byte, KeySize)
	copy(key, p.data[keyPos:keyPos+KeySize])
	return key
}

// Bit() returns the bit of the path at offset idx from Start()
func (p ProofPath) Bit(idx int) byte {
	pos := p.start + idx
	chunk := p.data[keyPos+pos/8]
	return (chunk >> (pos % 8)) & 1
}

// Prefix() creates a copy of this path truncated to the specified bit length.
// The resulting path is always a branch, so length must stay below 256 bits.
func (p ProofPath) Prefix(length int) (ProofPath, lib.ErrorI) {
	end := p.start + length
	if length < 0 || end >= maxPathBits {
		return ProofPath{}, ErrPrefixTooLong(end)
	}
	return p.truncate(end), nil
}

// truncate() returns a branch copy ending at the absolute bit position end
// CONTRACT: 0 <= end < 256
func (p ProofPath) truncate(end int) ProofPath {
	out := p
	out.data[kindPos] = kindBranch
	out.data[lenPos] = byte(end)
	return out
}

// matchLen() returns the first position at which the paths diverge, starting the
// scan at offset from
// CONTRACT: both paths share the same start offset
func (p ProofPath) matchLen(other ProofPath, from int) int {
	lenToEnd := min(p.Len(), other.Len())
	for i := from; i < lenToEnd; i++ {
		if p.Bit(i) != other.Bit(i) {
			return i
		}
	}
	return lenToEnd
}

// CommonPrefixLen() returns the length of the longest common prefix. Paths with
// different start offsets share no prefix.
func (p ProofPath) CommonPrefixLen(other ProofPath) int {
	if p.start != other.start {
		return 0
	}
	return p.matchLen(other, p.start)
}

// StartsWith() returns true if other is a prefix of p
func (p ProofPath) StartsWith(other ProofPath) bool {
	return p.CommonPrefixLen(other) == other.Len()
}

// Equal() returns true if both paths describe the same bit sequence
func (p ProofPath) Equal(other ProofPath) bool {
	return p.Len() == other.Len() && p.StartsWith(other)
}

// Less() is the total order over paths: the first differing bit wins, and a strict
// prefix sorts before any path it prefixes
// CONTRACT: both paths start at offset 0 (every parsed path does)
func (p ProofPath) Less(other ProofPath) bool {
	pos := p.CommonPrefixLen(other)
	if pos == min(p.Len(), other.Len()) {
		return p.Len() < other.Len()
	}
	return p.Bit(pos) < other.Bit(pos)
}

// Bytes() returns the fixed-width wire form: kind byte, 32-byte key, length byte
func (p ProofPath) Bytes() []byte {
	out := make([]byte, pathSize)
	copy(out, p.data[:])
	return out
}

// BytesCompressed() returns the compressed wire form hashed inside branch nodes:
// LEB128 bit length followed by the minimal covering key bytes, with unused
// trailing bits zeroed
func (p ProofPath) BytesCompressed() []byte {
	bitsLen := p.End()
	wholeBytes := (bitsLen + 7) / 8
	out := appendLEB128(make([]byte, 0, wholeBytes+2), uint64(bitsLen))
	out = append(out, p.data[keyPos:keyPos+wholeBytes]...)
	if tail := bitsLen % 8; wholeBytes > 0 && tail != 0 {
		out[len(out)-1] &= ^(byte(0xFF) << tail)
	}
	return out
}

// String() renders the path for debugging: one character per key bit, with bits
// outside the meaningful window shown as '_'
func (p ProofPath) String() string {
	var sb strings.Builder
	for byteIdx := 0; byteIdx < KeySize; byteIdx++ {
		chunk := p.data[keyPos+byteIdx]
		for bit := 7; bit >= 0; bit-- {
			i := byteIdx*8 + bit
			switch {
			case i < p.Start() || i >= p.End():
				sb.WriteByte('_')
			case (chunk>>bit)&1 == 0:
				sb.WriteByte('0')
			default:
				sb.WriteByte('1')
			}
		}
		sb.WriteByte('|')
	}
	return fmt.Sprintf("ProofPath [ start: %d, end: %d, bits: %s ]", p.Start(), p.End(), sb.String())
}

// appendLEB128() appends the unsigned LEB128 encoding of v
func appendLEB128(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
