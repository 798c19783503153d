package types_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-labs/l2ledger/codec"
	"github.com/halcyon-labs/l2ledger/common/types"
)

func existingAccount(balance uint64) types.Account {
	addr := types.NewNibbleKey([]byte{0xb5, 0x9a, 0x23, 0xe8})
	return types.NewAccount(addr, 0, balance, nil, nil)
}

func TestEmptyAccountAccessors(t *testing.T) {
	acc := types.EmptyAccount()
	require.True(t, acc.IsEmpty())
	require.Equal(t, uint64(0), acc.Balance())
	require.Equal(t, uint64(0), acc.Nonce())
}

func TestEmptyAccountMutationFails(t *testing.T) {
	acc := types.EmptyAccount()
	require.ErrorIs(t, acc.Deposit(10), types.ErrEmptyAccount)
	require.ErrorIs(t, acc.Withdraw(10), types.ErrEmptyAccount)
	require.ErrorIs(t, acc.SetBalance(10), types.ErrEmptyAccount)
	require.ErrorIs(t, acc.SetNonce(1), types.ErrEmptyAccount)
	require.True(t, acc.IsEmpty())
}

func TestDeposit(t *testing.T) {
	acc := existingAccount(100)
	require.NoError(t, acc.Deposit(42))
	require.Equal(t, uint64(142), acc.Balance())
}

func TestDepositOverflow(t *testing.T) {
	acc := existingAccount(math.MaxUint64 - 1)
	require.ErrorIs(t, acc.Deposit(2), types.ErrBalanceOverflow)
	require.Equal(t, uint64(math.MaxUint64-1), acc.Balance())
	require.NoError(t, acc.Deposit(1))
	require.Equal(t, uint64(math.MaxUint64), acc.Balance())
}

// Withdrawing must decrease the balance. The behavior is pinned here because
// an earlier rendition of this format increased it instead.
func TestWithdrawSubtracts(t *testing.T) {
	acc := existingAccount(100)
	require.NoError(t, acc.Withdraw(40))
	require.Equal(t, uint64(60), acc.Balance())
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	acc := existingAccount(30)
	require.ErrorIs(t, acc.Withdraw(31), types.ErrInsufficientBalance)
	require.Equal(t, uint64(30), acc.Balance())
	require.NoError(t, acc.Withdraw(30))
	require.Equal(t, uint64(0), acc.Balance())
}

func TestAccountNonce(t *testing.T) {
	acc := existingAccount(0)
	require.NoError(t, acc.SetNonce(7))
	require.Equal(t, uint64(7), acc.Nonce())
}

func TestFreshAccountForKey(t *testing.T) {
	addr := testSigner(t).Address()
	acc := types.NewFreshAccount(types.NewNibbleKey(addr[:]))
	require.False(t, acc.IsEmpty())
	require.Equal(t, uint64(0), acc.Nonce())
	require.Equal(t, uint64(0), acc.Balance())
	require.Empty(t, acc.Code())
	require.True(t, acc.Address().Equal(types.NewNibbleKey(senderAddress)))
}

func TestAccountEncodingRoundTrip(t *testing.T) {
	addr := types.NewNibbleKey([]byte{0x01, 0x02, 0x03})
	acc := types.NewAccount(addr, 3, 1000, []byte{0x60, 0x00}, []byte{0xff})

	buf, err := codec.Encode(acc)
	require.NoError(t, err)

	var decoded types.Account
	require.NoError(t, codec.Decode(buf, &decoded))
	require.True(t, acc.Equal(decoded))
	require.False(t, decoded.IsEmpty())
}

func TestEmptyAccountEncoding(t *testing.T) {
	buf, err := codec.Encode(types.EmptyAccount())
	require.NoError(t, err)
	require.Equal(t, []byte{0x80}, buf)

	var decoded types.Account
	require.NoError(t, codec.Decode(buf, &decoded))
	require.True(t, decoded.IsEmpty())
	require.True(t, decoded.Equal(types.EmptyAccount()))
}

func TestAccountDecodeBadItemCount(t *testing.T) {
	for _, payload := range [][]byte{
		codec.MustEncode([]any{[]byte{0x01}, uint64(1)}),
		codec.MustEncode([]any{[]byte{0x01}, uint64(1), uint64(2), []byte{}, []byte{}, []byte{}}),
	} {
		var decoded types.Account
		err := codec.Decode(payload, &decoded)
		require.Error(t, err)
		require.ErrorIs(t, err, codec.ErrMalformed)
	}
}

func TestAccountDecodeNonEmptyString(t *testing.T) {
	var decoded types.Account
	err := codec.Decode(codec.MustEncode([]byte{0x01, 0x02}), &decoded)
	require.ErrorIs(t, err, codec.ErrMalformed)
}

func TestAccountDecodeGarbage(t *testing.T) {
	var decoded types.Account
	err := codec.Decode([]byte{0xf9, 0xff, 0x01}, &decoded)
	require.ErrorIs(t, err, codec.ErrMalformed)
}

func TestAccountEqualDiscriminant(t *testing.T) {
	require.False(t, types.EmptyAccount().Equal(existingAccount(0)))
	require.False(t, existingAccount(0).Equal(types.EmptyAccount()))
	require.True(t, types.EmptyAccount().Equal(types.EmptyAccount()))
}

func TestAccountErrorsDistinct(t *testing.T) {
	require.False(t, errors.Is(types.ErrInsufficientBalance, types.ErrEmptyAccount))
	require.False(t, errors.Is(types.ErrBalanceOverflow, types.ErrInsufficientBalance))
}
