package signing

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/halcyon-labs/l2ledger/hash"
)

const (
	// PrivateKeySize is the size of a secp256k1 secret key in bytes.
	PrivateKeySize = 32
	// PublicKeySize is the size of an uncompressed serialized public key.
	PublicKeySize = 65
	// SignatureSize is the size of a recoverable signature: 64 signature
	// bytes followed by a 1-byte recovery id.
	SignatureSize = 65
	// AddressSize is the size of a raw account address in bytes.
	AddressSize = 20
)

// deriveMessage is the fixed, publicly known message every key self-signs
// during address derivation. Its content is arbitrary but part of the
// protocol: changing it changes every derived address.
var deriveMessage = bytes.Repeat([]byte{0x55}, hash.Size)

// Signer holds a secp256k1 secret key and produces recoverable signatures
// over 32-byte digests.
type Signer struct {
	priv *ecdsa.PrivateKey
	addr [AddressSize]byte
}

// NewSigner parses a raw 32-byte secret key. Malformed keys (wrong length,
// zero, or not below the curve order) are rejected with an error.
func NewSigner(key []byte) (*Signer, error) {
	if len(key) != PrivateKeySize {
		return nil, fmt.Errorf("invalid key size %d/%d", len(key), PrivateKeySize)
	}
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("parse secret key: %w", err)
	}
	return &Signer{priv: priv, addr: deriveAddress(priv)}, nil
}

// NewSignerFromRand generates a new key from the given entropy source.
func NewSignerFromRand(src io.Reader) (*Signer, error) {
	priv, err := ecdsa.GenerateKey(crypto.S256(), src)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Signer{priv: priv, addr: deriveAddress(priv)}, nil
}

// NewRandomSigner generates a new key from crypto/rand.
func NewRandomSigner() (*Signer, error) {
	return NewSignerFromRand(rand.Reader)
}

// Sign produces a 65-byte recoverable signature over a 32-byte digest.
func (s *Signer) Sign(digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, s.priv)
	if err != nil {
		return nil, fmt.Errorf("sign digest: %w", err)
	}
	return sig, nil
}

// Address returns the 20-byte account address bound to this key.
//
// The address is derived by signing the fixed derivation message, recovering
// the public key from that signature rather than reading it off the secret
// key, hashing the recovered key and truncating the digest. The recovery
// round-trip doubles as a self-check of the curve primitive.
func (s *Signer) Address() [AddressSize]byte {
	return s.addr
}

// PublicKey returns the uncompressed 65-byte serialized public key.
func (s *Signer) PublicKey() []byte {
	return crypto.FromECDSAPub(&s.priv.PublicKey)
}

// String returns a hex representation of the signer's address.
func (s *Signer) String() string {
	return hex.EncodeToString(s.addr[:])
}

func deriveAddress(priv *ecdsa.PrivateKey) [AddressSize]byte {
	sig, err := crypto.Sign(deriveMessage, priv)
	if err != nil {
		panic(fmt.Sprintf("signing: self-signature failed: %v", err))
	}
	pub, err := crypto.Ecrecover(deriveMessage, sig)
	if err != nil {
		panic(fmt.Sprintf("signing: key recovery round-trip failed: %v", err))
	}
	var addr [AddressSize]byte
	copy(addr[:], PublicKeyToAddress(pub))
	return addr
}
