package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkoba-pay/mkoba_pay/internal/phone"
	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

var (
	// ErrInvalidName occurs when the registration name is blank.
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidEmail occurs when the registration email is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
)

// Service manages user registration and wallet provisioning.
type Service struct {
	repo    Repository
	wallets *wallet.Service
	logger  *slog.Logger
}

// NewService creates a new identity service.
func NewService(repo Repository, wallets *wallet.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, wallets: wallets, logger: logger}
}

// RegisterInput captures data required to register a user.
type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	NationalID string
}

// Registration describes a completed sign-up.
type Registration struct {
	UserID   string
	Phone    string
	WalletID string
}

// Register creates a user and provisions their zero-balance wallet. The
// wallet's conditional insert is the uniqueness check: when it reports a
// duplicate phone the user row is deleted again before the error returns, so
// a lost race leaves nothing behind.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Registration{}, ErrInvalidName
	}
	if !strings.Contains(input.Email, "@") {
		return Registration{}, ErrInvalidEmail
	}

	canonical := phone.Normalize(input.Phone)

	user := User{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      canonical,
		NationalID: strings.TrimSpace(input.NationalID),
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return Registration{}, err
	}

	w, err := s.wallets.Provision(ctx, user.ID, canonical)
	if err != nil {
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil && s.logger != nil {
			s.logger.Warn("registration cleanup failed", "user_id", user.ID, "error", delErr)
		}
		return Registration{}, err
	}

	return Registration{UserID: user.ID, Phone: canonical, WalletID: w.ID}, nil
}
