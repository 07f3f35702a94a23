package ledger

import (
	"context"
	"time"
)

const (
	// KindTopUp marks an external credit into a wallet.
	KindTopUp = "topup"
	// KindTransfer marks a wallet-to-wallet movement.
	KindTransfer = "transfer"

	// StatusSuccess is the terminal state of a completed movement.
	StatusSuccess = "success"
	// StatusFailed marks a movement that was attempted and rejected downstream.
	StatusFailed = "failed"
	// StatusPending marks a movement awaiting provider confirmation.
	StatusPending = "pending"

	// DefaultListLimit bounds transaction queries when the caller gives none.
	DefaultListLimit = 20
)

// Transaction is one immutable ledger entry. FromPhone is empty for top-ups.
// Records are appended exactly once per completed movement and never updated
// or deleted.
type Transaction struct {
	ID        string
	Kind      string
	FromPhone string
	ToPhone   string
	Amount    int64
	Currency  string
	Provider  string
	Status    string
	Reference string
	CreatedAt time.Time
}

// Store defines the contract implemented by ledger backends (e.g. Postgres).
type Store interface {
	// Append inserts a record and returns its identifier. Append is the only
	// write; there is no update or delete.
	Append(ctx context.Context, tx Transaction) (string, error)

	// ListByPhone returns records where the phone key appears as source or
	// destination, newest first, bounded by limit.
	ListByPhone(ctx context.Context, phone string, limit int) ([]Transaction, error)
}
