package transaction

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/birr/internal/http/middleware"
	"github.com/MrJamesThe3rd/birr/internal/http/render"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type Service interface {
	Get(ctx context.Context, transactionID string) (*transaction.Record, error)
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Record, error)
	PendingWithdrawals(ctx context.Context) ([]*transaction.Record, error)
	SettleWithdrawal(ctx context.Context, transactionID string) (*transaction.Record, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Get("/transactions/{transactionID}", h.get)
	r.Get("/accounts/{chatID}/transactions", h.listForAccount)
	r.Get("/withdrawals/pending", h.pending)
	r.Post("/withdrawals/{transactionID}/settle", h.settle)
}

// parseFilter reads status, type and limit query parameters.
func parseFilter(r *http.Request) (transaction.ListFilter, bool) {
	filter := transaction.ListFilter{Limit: 100}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			return filter, false
		}

		filter.Limit = n
	}

	return filter, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list transactions", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) listForAccount(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	filter, ok := parseFilter(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}

	filter.ChatID = new(chatID)

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list account transactions", "chat_id", chatID, "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		slog.Error("Failed to get transaction", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.PendingWithdrawals(r.Context())
	if err != nil {
		slog.Error("Failed to list pending withdrawals", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transactionID")

	rec, err := h.svc.SettleWithdrawal(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			render.Error(w, http.StatusNotFound, "transaction not found")
		case errors.Is(err, transaction.ErrInvalidTransition):
			render.Error(w, http.StatusConflict, "transaction is not a pending withdrawal")
		default:
			slog.Error("Failed to settle withdrawal", "error", err)
			render.Error(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	operator, _ := middleware.Subject(r.Context())
	slog.Info("Withdrawal settled", "transaction_id", id, "operator", operator)

	render.JSON(w, http.StatusOK, toResponse(rec))
}
