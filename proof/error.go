package proof

import (
	"fmt"

	"github.com/meridian-network/meridian-light/lib"
	"github.com/meridian-network/meridian-light/lib/crypto"
)

func ErrProofParse(node any) lib.ErrorI {
	return lib.NewError(lib.CodeProofParse, lib.ProofModule, fmt.Sprintf("could not parse proof node: %v", node))
}

func ErrUnexpectedLeaf() lib.ErrorI {
	return lib.NewError(lib.CodeUnexpectedLeaf, lib.ProofModule, "proof contains a value in a position where a hash is expected")
}

func ErrUnexpectedBranch() lib.ErrorI {
	return lib.NewError(lib.CodeUnexpectedBranch, lib.ProofModule, "proof contains a hash in a position impossible for the list length")
}

func ErrMissingHash() lib.ErrorI {
	return lib.NewError(lib.CodeMissingHash, lib.ProofModule, "proof does not contain enough information to compute the root hash")
}

func ErrNonEmptyProof() lib.ErrorI {
	return lib.NewError(lib.CodeNonEmptyProof, lib.ProofModule, "non-empty proof for an empty list")
}

func ErrDuplicateKey() lib.ErrorI {
	return lib.NewError(lib.CodeDuplicateKey, lib.ProofModule, "the same key is used more than once in the proof")
}

func ErrMalformedEntry(entry any) lib.ErrorI {
	return lib.NewError(lib.CodeMalformedEntry, lib.ProofModule, fmt.Sprintf("malformed proof entry: %v", entry))
}

func ErrEntryEncoding(entry any, err error) lib.ErrorI {
	return lib.NewError(lib.CodeMalformedEntry, lib.ProofModule, fmt.Sprintf("entry %v could not be encoded: %s", entry, err.Error()))
}

func ErrEmbeddedPath(prefix, path ProofPath) lib.ErrorI {
	return lib.NewError(lib.CodeEmbeddedPath, lib.ProofModule, fmt.Sprintf("embedded path: prefix %s, path %s", prefix, path))
}

func ErrDuplicatePath(path ProofPath) lib.ErrorI {
	return lib.NewError(lib.CodeDuplicatePath, lib.ProofModule, fmt.Sprintf("duplicate path: %s", path))
}

func ErrInvalidOrdering(prevPath, path ProofPath) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidOrdering, lib.ProofModule, fmt.Sprintf("invalid ordering: prev path %s, path %s", prevPath, path))
}

func ErrNonTerminalNode(path ProofPath) lib.ErrorI {
	return lib.NewError(lib.CodeNonTerminalNode, lib.ProofModule, fmt.Sprintf("non-terminal single node: %s", path))
}

func ErrInvalidPath(bits, reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPath, lib.ProofModule, fmt.Sprintf("%s: %.64q", reason, bits))
}

func ErrInvalidPathData(size int) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidPath, lib.ProofModule, fmt.Sprintf("incorrect path key size: expected %d, got %d", KeySize, size))
}

func ErrPrefixTooLong(end int) lib.ErrorI {
	return lib.NewError(lib.CodePrefixTooLong, lib.ProofModule, fmt.Sprintf("prefix end %d must stay below %d", end, maxPathBits))
}

func ErrRootMismatch(expected, computed crypto.Hash) lib.ErrorI {
	return lib.NewError(lib.CodeRootMismatch, lib.ProofModule, fmt.Sprintf("unmatched root hash: expected %s, computed %s", expected, computed))
}
