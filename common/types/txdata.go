package types

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// Multiproof is a Merkle multiproof authenticating the pre-state of every
// account a batch touches, against one root commitment. At this layer it is
// an opaque, already-encoded unit: it is carried through the wire verbatim
// and only the external proof engine interprets its structure.
type Multiproof []byte

// EncodeRLP implements rlp.Encoder, writing the stored payload through
// unchanged. An absent proof encodes as the empty marker. The payload must
// hold exactly one well-formed item; anything else is rejected here rather
// than corrupting the enclosing encoding for the far end to trip over.
func (m Multiproof) EncodeRLP(w io.Writer) error {
	if len(m) == 0 {
		return rlp.Encode(w, []byte{})
	}
	var raw rlp.RawValue
	if err := rlp.DecodeBytes(m, &raw); err != nil {
		return fmt.Errorf("multiproof is not a single canonical item: %v", err)
	}
	_, err := w.Write(m)
	return err
}

// DecodeRLP implements rlp.Decoder, capturing the next item whole.
func (m *Multiproof) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		// Stream errors, rlp.EOL included, must keep their identity.
		return err
	}
	if len(raw) == 1 && raw[0] == 0x80 {
		*m = nil
		return nil
	}
	*m = Multiproof(raw)
	return nil
}

// TxData is the batch container embedded in a layer-one data field: the
// multiproof covering the accounts the batch touches, plus the ordered
// transaction list. The order of Txs is part of the contract; proof validity
// may depend on the account access order. TxData exclusively owns both.
type TxData struct {
	Proof Multiproof
	Txs   []Tx
}
