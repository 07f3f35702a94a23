package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestInMemoryStore_AppendAndList(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	id, err := store.Append(ctx, Transaction{
		Kind:      KindTopUp,
		ToPhone:   "+254712345678",
		Amount:    50_000,
		Currency:  "KES",
		Provider:  "mpesa-sandbox",
		Status:    StatusSuccess,
		Reference: "TP1",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated record id")
	}

	records, err := store.ListByPhone(ctx, "+254712345678", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Kind != KindTopUp || records[0].Amount != 50_000 {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestInMemoryStore_ListMatchesSourceAndDestination(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	store.Append(ctx, Transaction{Kind: KindTransfer, FromPhone: "+254711111111", ToPhone: "+254722222222", Amount: 100, Status: StatusSuccess})
	store.Append(ctx, Transaction{Kind: KindTransfer, FromPhone: "+254722222222", ToPhone: "+254733333333", Amount: 200, Status: StatusSuccess})
	store.Append(ctx, Transaction{Kind: KindTopUp, ToPhone: "+254744444444", Amount: 300, Status: StatusSuccess})

	records, err := store.ListByPhone(ctx, "+254722222222", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for phone on both sides, got %d", len(records))
	}
}

func TestInMemoryStore_ListNewestFirstAndBounded(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		store.Append(ctx, Transaction{
			Kind:      KindTopUp,
			ToPhone:   "+254712345678",
			Amount:    int64(i + 1),
			Status:    StatusSuccess,
			Reference: fmt.Sprintf("TP%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	records, err := store.ListByPhone(ctx, "+254712345678", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Fatalf("records not newest first: %v then %v", records[i-1].CreatedAt, records[i].CreatedAt)
		}
	}
	if records[0].Amount != 5 {
		t.Fatalf("expected most recent record first, got amount %d", records[0].Amount)
	}
}

func TestInMemoryStore_ListIsRequeryable(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	store.Append(ctx, Transaction{Kind: KindTopUp, ToPhone: "+254712345678", Amount: 100, Status: StatusSuccess})

	first, _ := store.ListByPhone(ctx, "+254712345678", 10)
	second, _ := store.ListByPhone(ctx, "+254712345678", 10)
	if len(first) != len(second) {
		t.Fatalf("query not restartable: %d vs %d", len(first), len(second))
	}
}
