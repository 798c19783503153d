// Package ledger applies authenticated transaction batches to account state.
//
// It owns none of the cryptography: transactions authenticate themselves
// (types.Tx.SigCheck) and the embedded multiproof stays opaque, to be checked
// against a root commitment by the external proof engine.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/halcyon-labs/l2ledger/codec"
	"github.com/halcyon-labs/l2ledger/common/types"
)

var (
	// ErrBadNonce is returned when a transaction nonce does not match the
	// sender's current account nonce.
	ErrBadNonce = errors.New("transaction nonce does not match account nonce")
	// ErrSignatureMismatch is returned when a transaction's recovered
	// signer address does not match its claimed sender.
	ErrSignatureMismatch = errors.New("signature does not match sender")
)

// Opt modifies the state at construction time.
type Opt func(*State)

// WithLogger sets the logger used by the state.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *State) {
		s.logger = logger
	}
}

// State is an in-memory account store keyed by nibble-encoded address.
// It is safe for concurrent use.
type State struct {
	logger *zap.Logger

	mu       sync.RWMutex
	accounts map[string]types.Account
}

// NewState creates an empty account store.
func NewState(opts ...Opt) *State {
	s := &State{
		logger:   zap.NewNop(),
		accounts: map[string]types.Account{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Account returns the account stored under key, or the empty variant when
// the address has no ledger presence.
func (s *State) Account(key types.NibbleKey) types.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[string(key)]
	if !ok {
		return types.EmptyAccount()
	}
	return acc
}

// SetAccount stores an existing account under its own address. The empty
// variant has no address and cannot be stored.
func (s *State) SetAccount(acc types.Account) error {
	if acc.IsEmpty() {
		return types.ErrEmptyAccount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[string(acc.Address())] = acc
	return nil
}

// Check verifies the signatures of every transaction in the batch.
// Verification is a pure CPU-bound computation reading only its own
// transaction, so the batch is fanned out across goroutines, each writing
// solely to its own result slot. The first invalid transaction is reported
// by index.
func (s *State) Check(ctx context.Context, data *types.TxData) error {
	results := make([]bool, len(data.Txs))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range data.Txs {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], _ = data.Txs[i].SigCheck()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("check batch: %w", err)
	}
	for i, ok := range results {
		if !ok {
			return fmt.Errorf("tx %d: %w", i, ErrSignatureMismatch)
		}
	}
	return nil
}

// Apply checks the batch signatures and then executes the transfers in
// order: nonce equality against the sender's state, withdrawal from the
// sender, deposit to the recipient and nonce increment. The batch is atomic;
// a rejected transaction leaves the state untouched. Each rejection reason
// surfaces as a distinct error.
//
// The recipient account is created explicitly here when the address has no
// ledger presence; the Account API itself never promotes the empty variant.
func (s *State) Apply(ctx context.Context, data *types.TxData) error {
	if err := s.Check(ctx, data); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := map[string]types.Account{}
	load := func(key types.NibbleKey) types.Account {
		if acc, ok := staged[string(key)]; ok {
			return acc
		}
		if acc, ok := s.accounts[string(key)]; ok {
			return acc
		}
		return types.EmptyAccount()
	}

	for i := range data.Txs {
		tx := &data.Txs[i]
		sender := load(tx.From)
		if tx.Nonce != sender.Nonce() {
			return fmt.Errorf("tx %d: %w: got %d, want %d", i, ErrBadNonce, tx.Nonce, sender.Nonce())
		}
		if err := sender.Withdraw(tx.Value); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
		if err := sender.SetNonce(sender.Nonce() + 1); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
		staged[string(tx.From)] = sender

		recipient := load(tx.To)
		if recipient.IsEmpty() {
			recipient = types.NewFreshAccount(tx.To)
		}
		if err := recipient.Deposit(tx.Value); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
		staged[string(tx.To)] = recipient

		s.logger.Debug("transfer",
			zap.Stringer("tx", tx),
			zap.Uint64("value", tx.Value),
		)
	}

	for key, acc := range staged {
		s.accounts[key] = acc
	}
	s.logger.Info("applied batch",
		zap.Int("txs", len(data.Txs)),
		zap.Int("proof_size", len(data.Proof)),
	)
	return nil
}

// DecodeBatch decodes a canonical batch payload. Malformed bytes surface as
// a recoverable error wrapping codec.ErrMalformed.
func DecodeBatch(buf []byte) (*types.TxData, error) {
	var data types.TxData
	if err := codec.Decode(buf, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
