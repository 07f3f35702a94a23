package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestServiceProvisionAndGet(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	userID := uuid.NewString()
	w, err := svc.Provision(ctx, userID, "+254712345678")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if w.Balance != 0 || w.Currency != DefaultCurrency {
		t.Fatalf("unexpected wallet: %+v", w)
	}

	// Lookup accepts raw local-format input.
	fetched, err := svc.Get(ctx, "0712345678")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != w.ID || fetched.UserID != userID {
		t.Fatalf("expected wallet %s, got %s", w.ID, fetched.ID)
	}
}

func TestServiceProvisionDuplicate(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Provision(ctx, uuid.NewString(), "+254712345678"); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	if _, err := svc.Provision(ctx, uuid.NewString(), "+254712345678"); err != ErrDuplicatePhone {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}
}
