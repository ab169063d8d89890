package lib

import (
	"fmt"
	"math"
)

// ErrorI is the error type every package of this library returns. The code and
// module are machine readable so that embedding applications can branch on the
// exact failure without string matching.
type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code, and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal   ErrorCode = 1
	CodeJSONUnmarshal ErrorCode = 2
	CodeStringToBytes ErrorCode = 3

	// Crypto Module
	CryptoModule ErrorModule = "crypto"

	// Crypto Module Error Codes
	CodeHashSize ErrorCode = 1

	// Proof Module
	ProofModule ErrorModule = "proof"

	// Proof Module Error Codes
	//
	// Codes 1-19 are malformed-proof kinds: the input violates the expected
	// shape or invariants, and re-submitting the same bytes can never succeed.
	CodeProofParse       ErrorCode = 1
	CodeUnexpectedLeaf   ErrorCode = 2
	CodeUnexpectedBranch ErrorCode = 3
	CodeRedundantHash    ErrorCode = 4
	CodeMissingHash      ErrorCode = 5
	CodeNonEmptyProof    ErrorCode = 6
	CodeDuplicateKey     ErrorCode = 7
	CodeMalformedEntry   ErrorCode = 8
	CodeEmbeddedPath     ErrorCode = 9
	CodeDuplicatePath    ErrorCode = 10
	CodeInvalidOrdering  ErrorCode = 11
	CodeNonTerminalNode  ErrorCode = 12
	CodeInvalidPath      ErrorCode = 13
	CodePrefixTooLong    ErrorCode = 14
	// Code 20 is the verification-failure kind: the proof is well formed but
	// the recomputed root does not match the trusted one.
	CodeRootMismatch ErrorCode = 20

	// Codec Module
	CodecModule ErrorModule = "codec"

	// Codec Module Error Codes
	CodeMarshal             ErrorCode = 1
	CodeUnmarshal           ErrorCode = 2
	CodeInvalidSchema       ErrorCode = 3
	CodeUnknownMessageName  ErrorCode = 4
	CodeNotConvertibleValue ErrorCode = 5
	CodeJSONEncode          ErrorCode = 6
)

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("jsonMarshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("jsonUnmarshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}
