package types

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
)

var (
	// ErrEmptyAccount is returned when a mutation is attempted on an
	// account with no ledger presence. An empty account is never promoted
	// implicitly.
	ErrEmptyAccount = errors.New("invalid account state: empty account")
	// ErrInsufficientBalance is returned when a withdrawal exceeds the
	// account balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrBalanceOverflow is returned when a deposit would overflow the
	// 64-bit balance.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// accountFieldCount is the wire item count of a populated account.
const accountFieldCount = 5

// Account is the ledger-state entity: a closed variant over empty and
// existing accounts. The zero value is the empty variant. Balance and nonce
// accessors are total and return 0 for an empty account; mutators are
// partial and fail with ErrEmptyAccount instead.
type Account struct {
	addr    NibbleKey
	nonce   uint64
	balance uint64
	code    []byte
	state   []byte
	exists  bool
}

// EmptyAccount returns the variant representing an address with no ledger
// presence.
func EmptyAccount() Account {
	return Account{}
}

// NewAccount returns an existing account with the given fields. Code holds
// contract bytecode (empty for plain accounts) and state is an opaque byte
// string owned by the execution layer.
func NewAccount(addr NibbleKey, nonce, balance uint64, code, state []byte) Account {
	if code == nil {
		code = []byte{}
	}
	if state == nil {
		state = []byte{}
	}
	return Account{
		addr:    addr,
		nonce:   nonce,
		balance: balance,
		code:    code,
		state:   state,
		exists:  true,
	}
}

// NewFreshAccount returns an existing account at the given address with zero
// nonce and balance and no code or state, the shape of an account that has
// just gained ledger presence.
func NewFreshAccount(addr NibbleKey) Account {
	return NewAccount(addr, 0, 0, nil, nil)
}

// IsEmpty reports whether the account is the empty variant.
func (a Account) IsEmpty() bool {
	return !a.exists
}

// Address returns the nibble-encoded account address, nil for the empty
// variant.
func (a Account) Address() NibbleKey {
	return a.addr
}

// Balance returns the account balance, 0 for the empty variant.
func (a Account) Balance() uint64 {
	return a.balance
}

// Nonce returns the account nonce, 0 for the empty variant.
func (a Account) Nonce() uint64 {
	return a.nonce
}

// Code returns the account bytecode, nil for the empty variant.
func (a Account) Code() []byte {
	return a.code
}

// State returns the opaque account state, nil for the empty variant.
func (a Account) State() []byte {
	return a.state
}

// Deposit adds amount to the balance. Overflow is checked: a deposit that
// does not fit the 64-bit balance is rejected rather than saturated, so that
// value conservation can be argued locally by the ledger layer.
func (a *Account) Deposit(amount uint64) error {
	if !a.exists {
		return ErrEmptyAccount
	}
	if a.balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	a.balance += amount
	return nil
}

// Withdraw subtracts amount from the balance, failing with
// ErrInsufficientBalance when the balance does not cover it.
func (a *Account) Withdraw(amount uint64) error {
	if !a.exists {
		return ErrEmptyAccount
	}
	if a.balance < amount {
		return ErrInsufficientBalance
	}
	a.balance -= amount
	return nil
}

// SetBalance overwrites the balance of an existing account.
func (a *Account) SetBalance(balance uint64) error {
	if !a.exists {
		return ErrEmptyAccount
	}
	a.balance = balance
	return nil
}

// SetNonce overwrites the nonce of an existing account. Nonces are expected
// to be monotonically non-decreasing; enforcing that is the ledger's job.
func (a *Account) SetNonce(nonce uint64) error {
	if !a.exists {
		return ErrEmptyAccount
	}
	a.nonce = nonce
	return nil
}

// Equal reports structural equality, including the variant discriminant.
func (a Account) Equal(other Account) bool {
	if a.exists != other.exists {
		return false
	}
	if !a.exists {
		return true
	}
	return a.addr.Equal(other.addr) &&
		a.nonce == other.nonce &&
		a.balance == other.balance &&
		bytes.Equal(a.code, other.code) &&
		bytes.Equal(a.state, other.state)
}

// String implements fmt.Stringer.
func (a Account) String() string {
	if !a.exists {
		return "account{empty}"
	}
	return fmt.Sprintf("account{addr=%s nonce=%d balance=%d}", a.addr, a.nonce, a.balance)
}

// EncodeRLP implements rlp.Encoder. The empty variant encodes as the empty
// marker, the existing variant as the 5-item list
// [address, nonce, balance, code, state].
func (a Account) EncodeRLP(w io.Writer) error {
	if !a.exists {
		return rlp.Encode(w, []byte{})
	}
	return rlp.Encode(w, []any{a.addr, a.nonce, a.balance, a.code, a.state})
}

// DecodeRLP implements rlp.Decoder. The payload's outer item count selects
// the variant: the empty marker decodes to the empty variant, a 5-item list
// to an existing account, and anything else is a decode error. Malformed
// input never panics; these bytes come from outside.
func (a *Account) DecodeRLP(s *rlp.Stream) error {
	kind, _, err := s.Kind()
	if err != nil {
		// Stream errors, rlp.EOL included, must keep their identity.
		return err
	}
	if kind != rlp.List {
		buf, err := s.Bytes()
		if err != nil {
			return fmt.Errorf("read account payload: %w", err)
		}
		if len(buf) != 0 {
			return fmt.Errorf("invalid account payload: %d-byte string, want empty marker", len(buf))
		}
		*a = Account{}
		return nil
	}

	var fields []rlp.RawValue
	if err := s.Decode(&fields); err != nil {
		return fmt.Errorf("read account payload: %w", err)
	}
	if len(fields) != accountFieldCount {
		return fmt.Errorf("invalid account payload: item count=%d", len(fields))
	}

	var addr []byte
	if err := rlp.DecodeBytes(fields[0], &addr); err != nil {
		return fmt.Errorf("decode account address: %w", err)
	}
	var nonce, balance uint64
	if err := rlp.DecodeBytes(fields[1], &nonce); err != nil {
		return fmt.Errorf("decode account nonce: %w", err)
	}
	if err := rlp.DecodeBytes(fields[2], &balance); err != nil {
		return fmt.Errorf("decode account balance: %w", err)
	}
	var code, state []byte
	if err := rlp.DecodeBytes(fields[3], &code); err != nil {
		return fmt.Errorf("decode account code: %w", err)
	}
	if err := rlp.DecodeBytes(fields[4], &state); err != nil {
		return fmt.Errorf("decode account state: %w", err)
	}

	// The wire carries addresses already nibble-encoded.
	*a = NewAccount(NibbleKey(addr), nonce, balance, code, state)
	return nil
}
