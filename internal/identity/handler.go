package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Phone    string `json:"phone"`
	WalletID string `json:"wallet_id"`
}

// Register handles user onboarding with an auto-provisioned wallet.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	reg, err := h.service.Register(c.UserContext(), RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidEmail):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, wallet.ErrDuplicatePhone):
			return fiber.NewError(http.StatusConflict, "phone already registered")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(registerResponse{
		UserID:   reg.UserID,
		Phone:    reg.Phone,
		WalletID: reg.WalletID,
	})
}
