package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/http/middleware"
	"github.com/MrJamesThe3rd/birr/internal/http/render"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type Service interface {
	Withdraw(ctx context.Context, params ledger.WithdrawParams) (*ledger.WithdrawalReceipt, error)
	Transfer(ctx context.Context, params ledger.TransferParams) (*ledger.TransferReceipt, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/withdrawals", h.withdraw)
	r.Post("/transfers", h.transfer)
}

type failure struct {
	err     error
	status  int
	message string
}

var failures = []failure{
	{ledger.ErrAccountNotFound, http.StatusNotFound, "You need to register first."},
	{ledger.ErrAmountOutOfRange, http.StatusUnprocessableEntity, "The amount is outside the allowed range."},
	{ledger.ErrInsufficientBalance, http.StatusUnprocessableEntity, "Your balance is too low for this amount."},
	{ledger.ErrInvalidBankDetails, http.StatusBadRequest, "The bank details are not valid."},
	{ledger.ErrRecipientNotFound, http.StatusNotFound, "No account is registered with that phone number."},
	{ledger.ErrSelfTransferRejected, http.StatusUnprocessableEntity, "You cannot transfer to your own account."},
	{ledger.ErrConcurrentUpdate, http.StatusConflict, "Your account was busy. Please try again."},
}

func writeFailure(w http.ResponseWriter, op string, err error) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			render.Error(w, f.status, f.message)
			return
		}
	}

	slog.Error("Ledger operation failed", "operation", op, "error", err)
	render.Error(w, http.StatusInternalServerError, "internal error")
}

type withdrawRequest struct {
	ChatID     int64           `json:"chat_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	BankType   string          `json:"bank_type" validate:"required,oneof=cbe cbe_birr_wallet"`
	BankNumber string          `json:"bank_number" validate:"required,numeric,max=32"`
}

type withdrawResponse struct {
	TransactionID string             `json:"transaction_id"`
	Amount        decimal.Decimal    `json:"amount"`
	BankType      string             `json:"bank_type"`
	BankNumber    string             `json:"bank_number"`
	Status        transaction.Status `json:"status"`
	Balance       decimal.Decimal    `json:"balance"`
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !render.Decode(w, r, &req) {
		return
	}

	res, err := h.svc.Withdraw(r.Context(), ledger.WithdrawParams{
		ChatID:     req.ChatID,
		Amount:     req.Amount,
		BankType:   req.BankType,
		BankNumber: req.BankNumber,
	})
	if err != nil {
		writeFailure(w, "withdraw", err)
		return
	}

	operator, _ := middleware.Subject(r.Context())
	slog.Info("Withdrawal requested", "transaction_id", res.TransactionID, "chat_id", req.ChatID, "operator", operator)

	render.JSON(w, http.StatusCreated, withdrawResponse{
		TransactionID: res.TransactionID,
		Amount:        res.Amount,
		BankType:      res.BankType,
		BankNumber:    res.BankNumber,
		Status:        res.Status,
		Balance:       res.Balance,
	})
}

type transferRequest struct {
	ChatID         int64           `json:"chat_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	RecipientPhone string          `json:"recipient_phone" validate:"required,phone"`
}

type transferResponse struct {
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	RecipientChatID int64           `json:"recipient_chat_id"`
	RecipientName   string          `json:"recipient_name"`
	RecipientPhone  string          `json:"recipient_phone"`
	Balance         decimal.Decimal `json:"balance"`
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !render.Decode(w, r, &req) {
		return
	}

	res, err := h.svc.Transfer(r.Context(), ledger.TransferParams{
		ChatID:         req.ChatID,
		Amount:         req.Amount,
		RecipientPhone: req.RecipientPhone,
	})
	if err != nil {
		writeFailure(w, "transfer", err)
		return
	}

	operator, _ := middleware.Subject(r.Context())
	slog.Info("Transfer completed", "transaction_id", res.TransactionID, "chat_id", req.ChatID, "operator", operator)

	render.JSON(w, http.StatusCreated, transferResponse{
		TransactionID:   res.TransactionID,
		Amount:          res.Amount,
		RecipientChatID: res.RecipientChatID,
		RecipientName:   res.RecipientName,
		RecipientPhone:  res.RecipientPhone,
		Balance:         res.Balance,
	})
}
