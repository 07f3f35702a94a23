package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists ledger entries in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts a transaction record.
func (s *PostgresStore) Append(ctx context.Context, tx Transaction) (string, error) {
	id := uuid.New()
	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `INSERT INTO transactions
        (id, kind, from_phone, to_phone, amount, currency, provider, status, reference, created_at)
        VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)`,
		id, tx.Kind, tx.FromPhone, tx.ToPhone, tx.Amount, tx.Currency, tx.Provider, tx.Status, tx.Reference, createdAt.UTC())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ListByPhone returns the most recent records involving the phone key.
func (s *PostgresStore) ListByPhone(ctx context.Context, phone string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(ctx, `SELECT id, kind, COALESCE(from_phone, ''), to_phone, amount, currency,
        COALESCE(provider, ''), status, COALESCE(reference, ''), created_at
        FROM transactions
        WHERE from_phone = $1 OR to_phone = $1
        ORDER BY created_at DESC
        LIMIT $2`, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			tx        Transaction
			id        uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &tx.Kind, &tx.FromPhone, &tx.ToPhone, &tx.Amount, &tx.Currency,
			&tx.Provider, &tx.Status, &tx.Reference, &createdAt); err != nil {
			return nil, err
		}
		tx.ID = id.String()
		tx.CreatedAt = createdAt.UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}
