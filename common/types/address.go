package types

import (
	"bytes"
)

const (
	// AddressLength is the expected length of a raw account address in
	// bytes. A nibble-encoded address carries twice as many elements.
	AddressLength = 20
)

const hexdigits = "0123456789abcdef"

// NibbleKey is a trie path: one half-byte per element. Addresses are stored
// nibble-encoded everywhere they act as keys so that they line up with the
// paths of the external multiproof structure.
type NibbleKey []byte

// NewNibbleKey expands raw key bytes into nibbles, high half first.
func NewNibbleKey(key []byte) NibbleKey {
	nibbles := make(NibbleKey, len(key)*2)
	for i, b := range key {
		nibbles[i*2] = b >> 4
		nibbles[i*2+1] = b & 0x0f
	}
	return nibbles
}

// Bytes packs the nibbles back into raw key bytes. The key must hold an even
// number of nibbles.
func (k NibbleKey) Bytes() []byte {
	buf := make([]byte, len(k)/2)
	for i := range buf {
		buf[i] = k[2*i]<<4 | k[2*i+1]
	}
	return buf
}

// IsEmpty reports whether the key holds no nibbles.
func (k NibbleKey) IsEmpty() bool {
	return len(k) == 0
}

// Equal reports whether two keys hold the same nibbles.
func (k NibbleKey) Equal(other NibbleKey) bool {
	return bytes.Equal(k, other)
}

// String implements fmt.Stringer, one hex digit per nibble.
func (k NibbleKey) String() string {
	buf := make([]byte, len(k))
	for i, n := range k {
		buf[i] = hexdigits[n&0x0f]
	}
	return string(buf)
}
