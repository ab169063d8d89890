package proof

import (
	"encoding/json"
	"math"
	"regexp"

	"github.com/meridian-network/meridian-light/lib/crypto"
)

/*
	Proof input arrives as already-deserialized loose JSON (maps, slices, strings,
	numbers) handed over by whatever transport the application uses. The helpers in
	this file classify loose values against the strict field schemas the wire
	format promises: hashes are exactly 64 hexadecimal characters, lengths and
	indices are non-negative integers.
*/

var hashFieldRx = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)

// asMap() classifies v as a JSON object
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// fieldMap() returns the named field when it is a JSON object
func fieldMap(m map[string]any, field string) (map[string]any, bool) {
	return asMap(m[field])
}

// fieldHash() returns the named field decoded as a 32-byte hash when it is a
// 64-character hexadecimal string
func fieldHash(m map[string]any, field string) (crypto.Hash, bool) {
	s, ok := m[field].(string)
	if !ok || !hashFieldRx.MatchString(s) {
		return crypto.Hash{}, false
	}
	h, err := crypto.HashFromString(s)
	if err != nil {
		return crypto.Hash{}, false
	}
	return h, true
}

// fieldHashOrNil() accepts an absent, nil, or empty-string field as "no hash",
// and otherwise requires a valid hash field
func fieldHashOrNil(m map[string]any, field string) (h *crypto.Hash, ok bool) {
	v, present := m[field]
	if !present || v == nil {
		return nil, true
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, true
	}
	hash, ok := fieldHash(m, field)
	if !ok {
		return nil, false
	}
	return &hash, true
}

// fieldUint() returns the named field as a non-negative integer, accepting the
// numeric shapes a JSON decoder may produce
func fieldUint(m map[string]any, field string) (uint64, bool) {
	return asUint(m[field])
}

// asUint() classifies v as a non-negative integer
func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= 1<<53 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	case json.Number:
		u, err := n.Int64()
		if err != nil || u < 0 {
			return 0, false
		}
		return uint64(u), true
	default:
		return 0, false
	}
}
