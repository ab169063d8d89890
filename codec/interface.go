package codec

import (
	"encoding/hex"
	"fmt"
)

// KeyEncoder converts an untyped map key into its canonical byte representation.
// The proof verifiers hash these bytes; the encoding must match the producer
// bit-for-bit.
type KeyEncoder func(key any) ([]byte, error)

// ValueEncoder converts an untyped stored value into its canonical byte
// representation.
type ValueEncoder func(value any) ([]byte, error)

// Hex() is the default encoder: the value must be a hexadecimal string
func Hex(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("hex encoder expects a string, got %T", value)
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return bz, nil
}
