package signing

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/halcyon-labs/l2ledger/hash"
)

// Recover extracts the signer's uncompressed public key from a 32-byte digest
// and a 65-byte recoverable signature.
func Recover(digest, sig []byte) ([]byte, error) {
	if len(digest) != hash.Size {
		return nil, fmt.Errorf("invalid digest size %d/%d", len(digest), hash.Size)
	}
	if len(sig) != SignatureSize {
		return nil, fmt.Errorf("invalid signature size %d/%d", len(sig), SignatureSize)
	}
	pub, err := crypto.Ecrecover(digest, sig)
	if err != nil {
		return nil, fmt.Errorf("recover public key: %w", err)
	}
	return pub, nil
}

// Verify reports whether the 64-byte signature (recovery id stripped) over
// the digest matches the given serialized public key.
func Verify(pub, digest, sig []byte) bool {
	return crypto.VerifySignature(pub, digest, sig)
}

// PublicKeyToAddress maps a serialized public key to its 20-byte account
// address: the truncated keccak256 digest of the full serialized key,
// including the format prefix.
func PublicKeyToAddress(pub []byte) []byte {
	return hash.Sum(pub)[:AddressSize]
}
