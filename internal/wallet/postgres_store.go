package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresStore persists wallets in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a wallet store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a wallet record. Uniqueness on the phone key is enforced by
// the insert itself, not a prior existence check.
func (s *PostgresStore) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(w.UserID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO wallets (id, user_id, phone, currency, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		walletID, userID, w.Phone, w.Currency, w.Balance, w.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicatePhone
		}
		return err
	}
	return nil
}

// FindByPhone fetches the wallet for a canonical phone key.
func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT id, user_id, phone, currency, balance, created_at, updated_at
        FROM wallets WHERE phone = $1`, phone)
	return scanWallet(row)
}

// Credit increases the wallet balance by amount as a single atomic update
// and returns the resulting balance.
func (s *PostgresStore) Credit(ctx context.Context, phone string, amount int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `UPDATE wallets SET balance = balance + $1, updated_at = $2
        WHERE phone = $3 RETURNING balance`, amount, time.Now().UTC(), phone).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Transfer moves amount between two wallets inside one database transaction.
// The debit carries its own balance precondition so two concurrent debits can
// never both pass a stale check, and the credit commits with it or not at all.
func (s *PostgresStore) Transfer(ctx context.Context, fromPhone, toPhone string, amount int64) (TransferBalances, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferBalances{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	now := time.Now().UTC()

	var fromBalance int64
	err = tx.QueryRow(ctx, `UPDATE wallets SET balance = balance - $1, updated_at = $2
        WHERE phone = $3 AND balance >= $1 RETURNING balance`, amount, now, fromPhone).Scan(&fromBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransferBalances{}, s.debitFailure(ctx, tx, fromPhone)
		}
		return TransferBalances{}, err
	}

	var toBalance int64
	err = tx.QueryRow(ctx, `UPDATE wallets SET balance = balance + $1, updated_at = $2
        WHERE phone = $3 RETURNING balance`, amount, now, toPhone).Scan(&toBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransferBalances{}, ErrNotFound
		}
		return TransferBalances{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferBalances{}, err
	}

	return TransferBalances{FromBalance: fromBalance, ToBalance: toBalance}, nil
}

// debitFailure distinguishes a missing source wallet from one that exists but
// cannot cover the amount.
func (s *PostgresStore) debitFailure(ctx context.Context, tx pgx.Tx, phone string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE phone = $1)`, phone).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientFunds
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &w.Phone, &w.Currency, &w.Balance, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.UserID = userID.String()
	w.CreatedAt = createdAt.UTC()
	w.UpdatedAt = updatedAt.UTC()
	return w, nil
}
