package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/checkout"
	"github.com/MrJamesThe3rd/birr/internal/http/render"
)

type Initializer interface {
	Initialize(ctx context.Context, params checkout.Params) (*checkout.Session, error)
}

type Handler struct {
	client Initializer
}

func NewHandler(client Initializer) *Handler {
	return &Handler{client: client}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

type createCheckoutRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	FirstName   string          `json:"first_name" validate:"required,max=64"`
	LastName    string          `json:"last_name" validate:"max=64"`
	Email       string          `json:"email" validate:"omitempty,email"`
	PhoneNumber string          `json:"phone_number" validate:"required,phone"`
}

type checkoutResponse struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if !render.Decode(w, r, &req) {
		return
	}

	session, err := h.client.Initialize(r.Context(), checkout.Params{
		Amount:      req.Amount,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		slog.Error("Failed to initialize checkout", "error", err)

		if errors.Is(err, checkout.ErrCheckoutFailed) {
			render.Error(w, http.StatusBadGateway, "There was an error processing your transaction. Please try again.")
			return
		}

		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusCreated, checkoutResponse{TxRef: session.TxRef, CheckoutURL: session.CheckoutURL})
}
