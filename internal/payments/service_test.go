package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkoba-pay/mkoba_pay/internal/ledger"
	"github.com/mkoba-pay/mkoba_pay/internal/notification"
	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func newTestService(notifier notification.Notifier) (*Service, wallet.Store, ledger.Store) {
	wallets := wallet.NewMemoryStore()
	ledgerStore := ledger.NewInMemory()
	return NewService(wallets, ledgerStore, notifier), wallets, ledgerStore
}

func registerWallet(t *testing.T, store wallet.Store, phone string, balance int64) {
	t.Helper()
	err := store.Create(context.Background(), wallet.Wallet{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Phone:     phone,
		Currency:  wallet.DefaultCurrency,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("register wallet %s: %v", phone, err)
	}
}

func TestTopUpSuccess(t *testing.T) {
	notifier := &testNotifier{}
	svc, wallets, ledgerStore := newTestService(notifier)
	ctx := context.Background()
	registerWallet(t, wallets, "+254712345678", 0)

	res, err := svc.TopUp(ctx, TopUpInput{Phone: "0712345678", Amount: 50_000})
	if err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if res.Phone != "+254712345678" {
		t.Fatalf("expected canonical phone, got %s", res.Phone)
	}
	if res.Balance != 50_000 {
		t.Fatalf("expected balance 50000, got %d", res.Balance)
	}

	records, _ := ledgerStore.ListByPhone(ctx, "+254712345678", 10)
	if len(records) != 1 {
		t.Fatalf("expected exactly one ledger record, got %d", len(records))
	}
	rec := records[0]
	if rec.Kind != ledger.KindTopUp || rec.FromPhone != "" || rec.ToPhone != "+254712345678" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Status != ledger.StatusSuccess || rec.Provider != topUpProvider {
		t.Fatalf("unexpected record metadata: %+v", rec)
	}

	if notifier.last.Kind != notification.KindTopUp {
		t.Fatalf("expected top-up notification, got %+v", notifier.last)
	}
}

func TestTopUpInvalidAmount(t *testing.T) {
	svc, wallets, ledgerStore := newTestService(nil)
	ctx := context.Background()
	registerWallet(t, wallets, "+254712345678", 1_000)

	for _, amount := range []int64{0, -500} {
		if _, err := svc.TopUp(ctx, TopUpInput{Phone: "+254712345678", Amount: amount}); err != ErrInvalidAmount {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	records, _ := ledgerStore.ListByPhone(ctx, "+254712345678", 10)
	if len(records) != 0 {
		t.Fatalf("rejected top-ups must not append records, got %d", len(records))
	}
	w, _ := wallets.FindByPhone(ctx, "+254712345678")
	if w.Balance != 1_000 {
		t.Fatalf("rejected top-ups must not move balance, got %d", w.Balance)
	}
}

func TestTopUpUnknownWallet(t *testing.T) {
	svc, _, _ := newTestService(nil)

	if _, err := svc.TopUp(context.Background(), TopUpInput{Phone: "0712345678", Amount: 100}); err != wallet.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransferSuccessConservesTotal(t *testing.T) {
	notifier := &testNotifier{}
	svc, wallets, ledgerStore := newTestService(notifier)
	ctx := context.Background()
	registerWallet(t, wallets, "+254712345678", 50_000)
	registerWallet(t, wallets, "+254722000000", 0)

	res, err := svc.Transfer(ctx, TransferInput{FromPhone: "0712345678", ToPhone: "0722000000", Amount: 20_000})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.FromBalance != 30_000 || res.ToBalance != 20_000 {
		t.Fatalf("unexpected balances: %+v", res)
	}
	if res.FromBalance+res.ToBalance != 50_000 {
		t.Fatalf("total not conserved: %d", res.FromBalance+res.ToBalance)
	}

	records, _ := ledgerStore.ListByPhone(ctx, "+254722000000", 10)
	if len(records) != 1 {
		t.Fatalf("expected one transfer record, got %d", len(records))
	}
	rec := records[0]
	if rec.Kind != ledger.KindTransfer || rec.FromPhone != "+254712345678" || rec.ToPhone != "+254722000000" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Provider != transferProvider {
		t.Fatalf("unexpected provider: %s", rec.Provider)
	}

	if notifier.last.Kind != notification.KindTransfer || notifier.last.Destination != "+254722000000" {
		t.Fatalf("expected transfer notification to destination, got %+v", notifier.last)
	}
}

func TestTransferInsufficientFundsMutatesNothing(t *testing.T) {
	svc, wallets, ledgerStore := newTestService(nil)
	ctx := context.Background()
	registerWallet(t, wallets, "+254712345678", 500)
	registerWallet(t, wallets, "+254722000000", 200)

	if _, err := svc.Transfer(ctx, TransferInput{FromPhone: "+254712345678", ToPhone: "+254722000000", Amount: 1_000}); err != wallet.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	from, _ := wallets.FindByPhone(ctx, "+254712345678")
	to, _ := wallets.FindByPhone(ctx, "+254722000000")
	if from.Balance != 500 || to.Balance != 200 {
		t.Fatalf("balances changed on failed transfer: %d / %d", from.Balance, to.Balance)
	}

	records, _ := ledgerStore.ListByPhone(ctx, "+254712345678", 10)
	if len(records) != 0 {
		t.Fatalf("failed transfer must not append records, got %d", len(records))
	}
}

func TestTransferSameAccount(t *testing.T) {
	svc, wallets, _ := newTestService(nil)
	registerWallet(t, wallets, "+254712345678", 1_000)

	// Different formats of the same number collapse to one canonical key.
	_, err := svc.Transfer(context.Background(), TransferInput{FromPhone: "0712345678", ToPhone: "+254712345678", Amount: 100})
	if err != ErrSameAccount {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}

func TestTransferMissingDestination(t *testing.T) {
	svc, wallets, _ := newTestService(nil)
	registerWallet(t, wallets, "+254712345678", 1_000)

	_, err := svc.Transfer(context.Background(), TransferInput{FromPhone: "+254712345678", ToPhone: "0799999999", Amount: 100})
	if err != wallet.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Mirrors the canonical walkthrough: register 0712345678, top up 500 KES,
// transfer 200 KES to a second wallet.
func TestTopUpThenTransferScenario(t *testing.T) {
	svc, wallets, ledgerStore := newTestService(nil)
	ctx := context.Background()
	registerWallet(t, wallets, "+254712345678", 0)
	registerWallet(t, wallets, "+254722000000", 0)

	up, err := svc.TopUp(ctx, TopUpInput{Phone: "0712345678", Amount: 50_000})
	if err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if up.Balance != 50_000 {
		t.Fatalf("expected 50000 after top-up, got %d", up.Balance)
	}

	tr, err := svc.Transfer(ctx, TransferInput{FromPhone: "0712345678", ToPhone: "0722000000", Amount: 20_000})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tr.FromBalance != 30_000 || tr.ToBalance != 20_000 {
		t.Fatalf("unexpected balances: %+v", tr)
	}

	records, _ := ledgerStore.ListByPhone(ctx, "+254712345678", 10)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != ledger.KindTransfer || records[1].Kind != ledger.KindTopUp {
		t.Fatalf("expected transfer then topup (newest first), got %s then %s", records[0].Kind, records[1].Kind)
	}
}
