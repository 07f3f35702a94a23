package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryStore struct {
	mu      sync.RWMutex
	records []Transaction
}

// NewInMemory creates a concurrency-safe in-memory ledger store useful for
// unit tests and for running the API without a database.
func NewInMemory() Store {
	return &inMemoryStore{}
}

func (s *inMemoryStore) Append(_ context.Context, tx Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.New().String()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, tx)
	return tx.ID, nil
}

func (s *inMemoryStore) ListByPhone(_ context.Context, phone string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Records append in time order, so walk backwards for newest first.
	out := make([]Transaction, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.records[i]
		if rec.FromPhone == phone || rec.ToPhone == phone {
			out = append(out, rec)
		}
	}
	return out, nil
}
