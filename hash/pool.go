package hash

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// Pool is a global keccak256 hasher pool. It is meant to amortize allocations
// of hashers over time by allowing clients to reuse them.
var pool = &sync.Pool{
	New: func() any {
		return crypto.NewKeccakState()
	},
}

// GetHasher will get a keccak256 hasher from the pool.
// It may or may not allocate a new one. Consumers are expected
// to call Reset() on the hasher before putting it back in
// the pool.
func GetHasher() crypto.KeccakState {
	return pool.Get().(crypto.KeccakState)
}

// PutHasher returns the hasher back to the pool.
// Consumers are expected to call Reset() on the
// instance before putting it back in the pool.
func PutHasher(hasher crypto.KeccakState) {
	pool.Put(hasher)
}
