package wallet

import (
	"context"
	"errors"
)

var (
	// ErrNotFound occurs when no wallet exists for the requested phone key.
	ErrNotFound = errors.New("wallet not found")

	// ErrDuplicatePhone indicates a wallet already exists for the phone key.
	ErrDuplicatePhone = errors.New("phone already registered")

	// ErrInsufficientFunds occurs when a debit would take a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store defines the contract implemented by wallet backends (e.g. Postgres).
//
// Balance mutations are atomic relative to concurrent mutations on the same
// record: Credit is a single read-modify-write, and Transfer applies the
// debit precondition and both adjustments as one all-or-nothing unit. No
// caller ever observes a state where only one side of a transfer applied.
type Store interface {
	Create(ctx context.Context, w Wallet) error
	FindByPhone(ctx context.Context, phone string) (Wallet, error)
	Credit(ctx context.Context, phone string, amount int64) (int64, error)
	Transfer(ctx context.Context, fromPhone, toPhone string, amount int64) (TransferBalances, error)
}
