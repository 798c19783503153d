package hash

import "github.com/ethereum/go-ethereum/crypto"

const (
	// Size is the keccak256 digest size (32 bytes).
	Size = 32
)

var (
	// New returns a fresh keccak256 state accepting streamed writes.
	New = crypto.NewKeccakState
	// Sum is an alias to crypto.Keccak256.
	Sum = crypto.Keccak256
)
