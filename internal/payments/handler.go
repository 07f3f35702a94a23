package payments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mkoba-pay/mkoba_pay/internal/ledger"
	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

// Handler exposes money-movement endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type topUpRequest struct {
	Phone       string `json:"phone"`
	AmountCents int64  `json:"amount_cents"`
}

type transferRequest struct {
	FromPhone   string `json:"from_phone"`
	ToPhone     string `json:"to_phone"`
	AmountCents int64  `json:"amount_cents"`
}

type transactionResponse struct {
	Kind      string    `json:"kind"`
	FromPhone string    `json:"from_phone,omitempty"`
	ToPhone   string    `json:"to_phone"`
	Amount    int64     `json:"amount_cents"`
	Currency  string    `json:"currency"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// TopUp credits a wallet from the sandbox provider.
func (h *Handler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.TopUp(c.UserContext(), TopUpInput{Phone: req.Phone, Amount: req.AmountCents})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"phone":         res.Phone,
		"balance_cents": res.Balance,
	})
}

// Transfer moves funds between two wallets.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromPhone: req.FromPhone,
		ToPhone:   req.ToPhone,
		Amount:    req.AmountCents,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"from":         res.FromPhone,
		"to":           res.ToPhone,
		"amount_cents": res.Amount,
		"completed_at": res.CompletedAt,
	})
}

// ListTransactions returns recent ledger records for a phone.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	limit := ledger.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fiber.NewError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	records, err := h.service.ListTransactions(c.UserContext(), c.Params("phone"), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]transactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, transactionResponse{
			Kind:      rec.Kind,
			FromPhone: rec.FromPhone,
			ToPhone:   rec.ToPhone,
			Amount:    rec.Amount,
			Currency:  rec.Currency,
			Provider:  rec.Provider,
			Status:    rec.Status,
			Reference: rec.Reference,
			CreatedAt: rec.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}

// mapError translates the service error taxonomy onto HTTP statuses so a
// client can tell a bad amount from a missing account from an outage.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, ErrSameAccount):
		return fiber.NewError(http.StatusBadRequest, "cannot transfer to the same phone")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
