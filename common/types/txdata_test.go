package types_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-labs/l2ledger/codec"
	"github.com/halcyon-labs/l2ledger/common/types"
)

// testProof builds an opaque proof payload. Its internal structure is
// irrelevant here; it only has to survive the round trip byte for byte.
func testProof(t *testing.T) types.Multiproof {
	t.Helper()
	return types.Multiproof(codec.MustEncode([]any{uint64(7), []byte{0xaa, 0xbb}}))
}

func TestTxDataEncodingRoundTrip(t *testing.T) {
	first := signedTx(t)
	second := types.NewTx(
		bytes.Repeat([]byte{0x06}, types.AddressLength),
		bytes.Repeat([]byte{0x07}, types.AddressLength),
		4,
	)
	second.Value = 12

	data := types.TxData{
		Proof: testProof(t),
		Txs:   []types.Tx{*first, *second},
	}

	buf, err := codec.Encode(&data)
	require.NoError(t, err)

	var decoded types.TxData
	require.NoError(t, codec.Decode(buf, &decoded))
	require.Empty(t, cmp.Diff(data, decoded, cmpopts.EquateEmpty()))
	require.Equal(t, []byte(data.Proof), []byte(decoded.Proof))

	// Transaction order is part of the contract.
	require.Equal(t, uint64(1), decoded.Txs[0].Nonce)
	require.Equal(t, uint64(4), decoded.Txs[1].Nonce)

	valid, _ := decoded.Txs[0].SigCheck()
	require.True(t, valid)
}

func TestTxDataEmptyProof(t *testing.T) {
	data := types.TxData{Txs: []types.Tx{*signedTx(t)}}

	buf, err := codec.Encode(&data)
	require.NoError(t, err)

	var decoded types.TxData
	require.NoError(t, codec.Decode(buf, &decoded))
	require.Empty(t, decoded.Proof)
	require.Len(t, decoded.Txs, 1)
}

func TestTxDataRoundTripBatchSizes(t *testing.T) {
	// The tx list decoder must see the end of the list cleanly at every
	// batch size, including an empty batch.
	for _, count := range []int{0, 1, 3} {
		txs := make([]types.Tx, count)
		for i := range txs {
			txs[i] = *signedTx(t)
			txs[i].Nonce = uint64(i)
		}
		data := types.TxData{Proof: testProof(t), Txs: txs}

		buf, err := codec.Encode(&data)
		require.NoError(t, err)

		var decoded types.TxData
		require.NoError(t, codec.Decode(buf, &decoded))
		require.Len(t, decoded.Txs, count)
		require.Empty(t, cmp.Diff(data, decoded, cmpopts.EquateEmpty()))
	}
}

func TestMultiproofEncodeRejectsNonCanonical(t *testing.T) {
	for _, proof := range []types.Multiproof{
		{0x81},       // truncated string
		{0x01, 0x02}, // two items
		{0xc3, 0x01}, // truncated list
	} {
		data := types.TxData{Proof: proof, Txs: nil}
		_, err := codec.Encode(&data)
		require.Error(t, err, "proof % x must be rejected at encode time", []byte(proof))
	}
}

func TestTxDataDecodeGarbage(t *testing.T) {
	var decoded types.TxData
	require.ErrorIs(t, codec.Decode([]byte{0xc0, 0x01}, &decoded), codec.ErrMalformed)
}
