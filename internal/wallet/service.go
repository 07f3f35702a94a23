package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkoba-pay/mkoba_pay/internal/phone"
)

// Service exposes wallet lookup and provisioning on top of a Store.
type Service struct {
	store Store
}

// NewService builds a wallet service instance.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Provision creates a zero-balance KES wallet bound to the canonical phone
// key. Returns ErrDuplicatePhone if the key is already taken.
func (s *Service) Provision(ctx context.Context, userID, canonicalPhone string) (Wallet, error) {
	w := Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Phone:     canonicalPhone,
		Currency:  DefaultCurrency,
		Balance:   0,
		CreatedAt: time.Now().UTC(),
	}
	w.UpdatedAt = w.CreatedAt

	if err := s.store.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// Get resolves a raw phone number to its wallet.
func (s *Service) Get(ctx context.Context, rawPhone string) (Wallet, error) {
	return s.store.FindByPhone(ctx, phone.Normalize(rawPhone))
}
