package deposit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/claim"
	"github.com/MrJamesThe3rd/birr/internal/extract"
	"github.com/MrJamesThe3rd/birr/internal/http/render"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/receipt"
	"github.com/MrJamesThe3rd/birr/internal/verify"
)

type Verifier interface {
	VerifyDeposit(ctx context.Context, transactionID string, chatID int64) (*verify.Confirmation, error)
}

type Handler struct {
	svc Verifier
}

func NewHandler(svc Verifier) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

type createDepositRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,max=64"`
	ChatID        int64  `json:"chat_id" validate:"required"`
}

type depositResponse struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	PaymentDate   time.Time       `json:"payment_date"`
	Message       string          `json:"message"`
}

var statuses = []struct {
	err    error
	status int
}{
	{receipt.ErrMalformedReference, http.StatusBadRequest},
	{receipt.ErrInvalidTransactionID, http.StatusUnprocessableEntity},
	{receipt.ErrStalePayment, http.StatusUnprocessableEntity},
	{receipt.ErrRecipientMismatch, http.StatusUnprocessableEntity},
	{receipt.ErrIncompleteReceipt, http.StatusUnprocessableEntity},
	{extract.ErrExtraction, http.StatusUnprocessableEntity},
	{ledger.ErrAccountNotFound, http.StatusNotFound},
	{ledger.ErrDuplicateTransaction, http.StatusConflict},
	{claim.ErrHeld, http.StatusConflict},
	{ledger.ErrConcurrentUpdate, http.StatusConflict},
}

func statusFor(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDepositRequest
	if !render.Decode(w, r, &req) {
		return
	}

	conf, err := h.svc.VerifyDeposit(r.Context(), req.TransactionID, req.ChatID)
	if err != nil {
		var vErr *verify.Error
		if !errors.As(err, &vErr) {
			slog.Error("Deposit verification failed", "error", err)
			render.Error(w, http.StatusInternalServerError, "internal error")

			return
		}

		render.Error(w, statusFor(vErr.Err), vErr.Message)

		return
	}

	render.JSON(w, http.StatusCreated, depositResponse{
		TransactionID: conf.TransactionID,
		Amount:        conf.Amount,
		Balance:       conf.Balance,
		PaymentDate:   conf.PaymentDate,
		Message:       conf.Message,
	})
}
