package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkoba-pay/mkoba_pay/internal/ledger"
	"github.com/mkoba-pay/mkoba_pay/internal/metrics"
	"github.com/mkoba-pay/mkoba_pay/internal/notification"
	"github.com/mkoba-pay/mkoba_pay/internal/phone"
	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

const (
	topUpProvider    = "mpesa-sandbox"
	transferProvider = "internal-ledger"
)

var (
	// ErrInvalidAmount occurs when a movement amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrSameAccount occurs when a transfer names one phone on both sides.
	ErrSameAccount = errors.New("cannot transfer to the same phone")
)

// Service orchestrates the two money-movement operations: it validates input,
// drives the atomic balance mutation through the wallet store, and appends
// the immutable ledger record. Nothing here retries; every failure is
// terminal for the request.
type Service struct {
	wallets  wallet.Store
	ledger   ledger.Store
	notifier notification.Notifier
}

// NewService constructs a payments service.
func NewService(wallets wallet.Store, ledgerStore ledger.Store, notifier notification.Notifier) *Service {
	return &Service{wallets: wallets, ledger: ledgerStore, notifier: notifier}
}

// TopUpInput captures an external credit into a wallet.
type TopUpInput struct {
	Phone  string
	Amount int64
}

// TopUpResult reports the credited wallet and its new balance.
type TopUpResult struct {
	Phone   string
	Balance int64
}

// TransferInput captures a wallet-to-wallet movement.
type TransferInput struct {
	FromPhone string
	ToPhone   string
	Amount    int64
}

// TransferResult reports both sides of a completed transfer.
type TransferResult struct {
	FromPhone   string
	ToPhone     string
	Amount      int64
	FromBalance int64
	ToBalance   int64
	CompletedAt time.Time
}

// TopUp credits a wallet and appends one top-up ledger record.
func (s *Service) TopUp(ctx context.Context, input TopUpInput) (TopUpResult, error) {
	canonical := phone.Normalize(input.Phone)

	if input.Amount <= 0 {
		metrics.Record(ledger.KindTopUp, metrics.OutcomeRejected, 0)
		return TopUpResult{}, ErrInvalidAmount
	}

	balance, err := s.wallets.Credit(ctx, canonical, input.Amount)
	if err != nil {
		metrics.Record(ledger.KindTopUp, outcomeFor(err), 0)
		return TopUpResult{}, err
	}

	record := ledger.Transaction{
		Kind:      ledger.KindTopUp,
		ToPhone:   canonical,
		Amount:    input.Amount,
		Currency:  wallet.DefaultCurrency,
		Provider:  topUpProvider,
		Status:    ledger.StatusSuccess,
		Reference: reference("TP"),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.ledger.Append(ctx, record); err != nil {
		metrics.Record(ledger.KindTopUp, metrics.OutcomeError, 0)
		return TopUpResult{}, fmt.Errorf("record top-up: %w", err)
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindTopUp,
		Destination: canonical,
		Body:        fmt.Sprintf("Wallet credited with %d KES cents", input.Amount),
	})

	metrics.Record(ledger.KindTopUp, metrics.OutcomeSuccess, input.Amount)
	return TopUpResult{Phone: canonical, Balance: balance}, nil
}

// Transfer moves funds between two wallets as one atomic unit and appends one
// transfer ledger record.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	src := phone.Normalize(input.FromPhone)
	dst := phone.Normalize(input.ToPhone)

	if src == dst {
		metrics.Record(ledger.KindTransfer, metrics.OutcomeRejected, 0)
		return TransferResult{}, ErrSameAccount
	}
	if input.Amount <= 0 {
		metrics.Record(ledger.KindTransfer, metrics.OutcomeRejected, 0)
		return TransferResult{}, ErrInvalidAmount
	}

	balances, err := s.wallets.Transfer(ctx, src, dst, input.Amount)
	if err != nil {
		metrics.Record(ledger.KindTransfer, outcomeFor(err), 0)
		return TransferResult{}, err
	}

	record := ledger.Transaction{
		Kind:      ledger.KindTransfer,
		FromPhone: src,
		ToPhone:   dst,
		Amount:    input.Amount,
		Currency:  wallet.DefaultCurrency,
		Provider:  transferProvider,
		Status:    ledger.StatusSuccess,
		Reference: reference("TR"),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.ledger.Append(ctx, record); err != nil {
		metrics.Record(ledger.KindTransfer, metrics.OutcomeError, 0)
		return TransferResult{}, fmt.Errorf("record transfer: %w", err)
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindTransfer,
		Destination: dst,
		Body:        fmt.Sprintf("You received %d KES cents from %s", input.Amount, src),
	})

	metrics.Record(ledger.KindTransfer, metrics.OutcomeSuccess, input.Amount)
	return TransferResult{
		FromPhone:   src,
		ToPhone:     dst,
		Amount:      input.Amount,
		FromBalance: balances.FromBalance,
		ToBalance:   balances.ToBalance,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// ListTransactions returns the most recent ledger records involving a phone.
func (s *Service) ListTransactions(ctx context.Context, rawPhone string, limit int) ([]ledger.Transaction, error) {
	return s.ledger.ListByPhone(ctx, phone.Normalize(rawPhone), limit)
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, msg)
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, wallet.ErrNotFound), errors.Is(err, wallet.ErrInsufficientFunds):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func reference(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}
