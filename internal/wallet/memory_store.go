package wallet

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	wallets map[string]Wallet
}

// NewMemoryStore constructs an in-memory wallet store. A single mutex covers
// every operation, giving the same atomicity the Postgres store gets from
// conditional updates and transactions.
func NewMemoryStore() Store {
	return &memoryStore{wallets: make(map[string]Wallet)}
}

func (s *memoryStore) Create(_ context.Context, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[w.Phone]; exists {
		return ErrDuplicatePhone
	}
	s.wallets[w.Phone] = w
	return nil
}

func (s *memoryStore) FindByPhone(_ context.Context, phone string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[phone]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *memoryStore) Credit(_ context.Context, phone string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[phone]
	if !ok {
		return 0, ErrNotFound
	}
	w.Balance += amount
	w.UpdatedAt = time.Now().UTC()
	s.wallets[phone] = w
	return w.Balance, nil
}

func (s *memoryStore) Transfer(_ context.Context, fromPhone, toPhone string, amount int64) (TransferBalances, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.wallets[fromPhone]
	if !ok {
		return TransferBalances{}, ErrNotFound
	}
	to, ok := s.wallets[toPhone]
	if !ok {
		return TransferBalances{}, ErrNotFound
	}
	if from.Balance < amount {
		return TransferBalances{}, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	from.Balance -= amount
	from.UpdatedAt = now
	to.Balance += amount
	to.UpdatedAt = now
	s.wallets[fromPhone] = from
	s.wallets[toPhone] = to

	return TransferBalances{FromBalance: from.Balance, ToBalance: to.Balance}, nil
}
