package lib

import (
	"encoding/hex"
	"encoding/json"
)

// StringToBytes() converts a hexadecimal string into bytes
func StringToBytes(s string) ([]byte, ErrorI) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrStringToBytes(err)
	}
	return b, nil
}

// BytesToString() converts bytes into a hexadecimal string
func BytesToString(b []byte) string {
	return hex.EncodeToString(b)
}

// MarshalJSON() serializes the input into JSON bytes
func MarshalJSON(message any) ([]byte, ErrorI) {
	bz, err := json.Marshal(message)
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// UnmarshalJSON() deserializes JSON bytes into the pointer
func UnmarshalJSON(bz []byte, ptr any) ErrorI {
	if err := json.Unmarshal(bz, ptr); err != nil {
		return ErrJSONUnmarshal(err)
	}
	return nil
}
