// Package codec provides the canonical binary encoding used on the wire.
//
// Values are serialized with RLP: a deterministic, length-prefixed encoding
// where scalars, byte strings and nested lists each have exactly one
// representation, and the empty string doubles as an explicit empty marker.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// ErrMalformed is wrapped into every decode failure so that boundary code fed
// by untrusted bytes can branch on "malformed encoding" distinctly from other
// rejection reasons.
var ErrMalformed = errors.New("malformed encoding")

// Encodable is an interface that must be implemented by a struct to be encoded.
type Encodable interface{}

// Decodable is an interface that must be implemented by a struct to be decoded.
type Decodable interface{}

// EncodeTo encodes value to a writer stream.
func EncodeTo(w io.Writer, value Encodable) error {
	if err := rlp.Encode(w, value); err != nil {
		return fmt.Errorf("encode RLP: %w", err)
	}
	return nil
}

// DecodeFrom decodes a value using data from a reader stream.
func DecodeFrom(r io.Reader, value Decodable) error {
	if err := rlp.Decode(r, value); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Encode value to a byte buffer.
func Encode(value Encodable) ([]byte, error) {
	buf, err := rlp.EncodeToBytes(value)
	if err != nil {
		return nil, fmt.Errorf("encode RLP: %w", err)
	}
	return buf, nil
}

// MustEncode encodes a value and panics on failure. It is meant for values
// whose encoding cannot fail, such as the package's own wire types.
func MustEncode(value Encodable) []byte {
	buf, err := Encode(value)
	if err != nil {
		panic(err)
	}
	return buf
}

// Decode value from a byte buffer.
func Decode(buf []byte, value Decodable) error {
	if err := rlp.DecodeBytes(buf, value); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
