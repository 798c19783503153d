package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/halcyon-labs/l2ledger/hash"
	"github.com/halcyon-labs/l2ledger/signing"
)

// Signer produces a recoverable signature over a 32-byte digest.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
}

// Tx is a single transfer-and-optional-call instruction. It is built
// unsigned, with a zero-filled signature, mutated once by Sign and immutable
// from then on. The wire encoding is the 7-item list
// [from, to, nonce, value, call, data, signature].
type Tx struct {
	From      NibbleKey
	To        NibbleKey
	Nonce     uint64
	Value     uint64
	Call      uint32
	Data      []byte
	Signature []byte
}

// NewTx builds an unsigned transaction from raw address bytes. Txs have only
// one instruction in this model, selected by Call.
func NewTx(from, to []byte, nonce uint64) *Tx {
	return &Tx{
		From:      NewNibbleKey(from),
		To:        NewNibbleKey(to),
		Nonce:     nonce,
		Signature: make([]byte, signing.SignatureSize),
		Data:      []byte{},
	}
}

// SigningDigest hashes the ordered transaction fields, each individually
// canonically encoded before being fed to the hasher. The signature field is
// not part of the digest.
func (tx *Tx) SigningDigest() []byte {
	h := hash.GetHasher()
	defer func() {
		h.Reset()
		hash.PutHasher(h)
	}()
	// Encoding uints and byte strings into a hasher cannot fail.
	for _, field := range []any{tx.From, tx.To, tx.Nonce, tx.Value, tx.Call, tx.Data} {
		_ = rlp.Encode(h, field)
	}
	digest := make([]byte, hash.Size)
	h.Read(digest)
	return digest
}

// Sign computes the signing digest and stores the 65-byte recoverable
// signature produced by the signer. Re-signing is allowed and simply
// replaces the previous signature.
func (tx *Tx) Sign(signer Signer) error {
	sig, err := signer.Sign(tx.SigningDigest())
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	if len(sig) != signing.SignatureSize {
		return fmt.Errorf("sign transaction: signature size %d/%d", len(sig), signing.SignatureSize)
	}
	tx.Signature = bytes.Clone(sig)
	return nil
}

// SigCheck recomputes the signing digest, recovers the signer's public key
// from the stored signature and re-derives its address. It returns whether
// the derived address matches the claimed sender, along with the derived
// address itself; on any recovery or verification failure it returns an
// empty address. It never mutates the transaction and is safe to call
// repeatedly.
//
// Binding the authenticated identity to From via the hash-derived address,
// instead of trusting From directly, lets any party relay the transaction
// without re-signing while keeping it authenticated against the claim.
func (tx *Tx) SigCheck() (bool, NibbleKey) {
	if len(tx.Signature) != signing.SignatureSize {
		return false, NibbleKey{}
	}
	digest := tx.SigningDigest()
	pub, err := signing.Recover(digest, tx.Signature)
	if err != nil {
		return false, NibbleKey{}
	}
	if !signing.Verify(pub, digest, tx.Signature[:signing.SignatureSize-1]) {
		return false, NibbleKey{}
	}
	addr := NewNibbleKey(signing.PublicKeyToAddress(pub))
	return addr.Equal(tx.From), addr
}

// EncodeRLP implements rlp.Encoder.
func (tx *Tx) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{tx.From, tx.To, tx.Nonce, tx.Value, tx.Call, tx.Data, tx.Signature})
}

// DecodeRLP implements rlp.Decoder.
func (tx *Tx) DecodeRLP(s *rlp.Stream) error {
	var dec struct {
		From      []byte
		To        []byte
		Nonce     uint64
		Value     uint64
		Call      uint32
		Data      []byte
		Signature []byte
	}
	// Stream errors pass through untouched: the slice decoder detects the
	// end of an enclosing list by the rlp.EOL sentinel.
	if err := s.Decode(&dec); err != nil {
		return err
	}
	*tx = Tx{
		From:      NibbleKey(dec.From),
		To:        NibbleKey(dec.To),
		Nonce:     dec.Nonce,
		Value:     dec.Value,
		Call:      dec.Call,
		Data:      dec.Data,
		Signature: dec.Signature,
	}
	return nil
}

// String implements fmt.Stringer, for logging.
func (tx *Tx) String() string {
	return fmt.Sprintf("tx{from=%s to=%s nonce=%d value=%d}", tx.From, tx.To, tx.Nonce, tx.Value)
}
