package wallet

import "time"

// DefaultCurrency is the only currency wallets hold.
const DefaultCurrency = "KES"

// Wallet is the balance-holding record for one canonical phone key. Balance
// is kept in KES cents and never goes negative.
type Wallet struct {
	ID        string
	UserID    string
	Phone     string
	Currency  string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransferBalances reports both sides of a completed transfer.
type TransferBalances struct {
	FromBalance int64
	ToBalance   int64
}
