package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/account"
	"github.com/MrJamesThe3rd/birr/internal/http/render"
)

type Service interface {
	Register(ctx context.Context, params account.RegisterParams) (*account.Account, error)
	Get(ctx context.Context, chatID int64) (*account.Account, error)
	GetByPhone(ctx context.Context, phone string) (*account.Account, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/accounts", h.register)
	r.Get("/accounts", h.findByPhone)
	r.Get("/accounts/{chatID}", h.get)
}

type registerRequest struct {
	ChatID      int64  `json:"chat_id" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	FirstName   string `json:"first_name" validate:"max=64"`
}

type accountResponse struct {
	ID          uuid.UUID       `json:"id"`
	ChatID      int64           `json:"chat_id"`
	PhoneNumber string          `json:"phone_number"`
	FirstName   string          `json:"first_name"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		ChatID:      a.ChatID,
		PhoneNumber: a.PhoneNumber,
		FirstName:   a.FirstName,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !render.Decode(w, r, &req) {
		return
	}

	a, err := h.svc.Register(r.Context(), account.RegisterParams{
		ChatID:      req.ChatID,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAlreadyRegistered):
			render.Error(w, http.StatusConflict, "an account with this chat or phone number already exists")
		case errors.Is(err, account.ErrInvalidPhone):
			render.Error(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("Failed to register account", "error", err)
			render.Error(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	render.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	a, err := h.svc.Get(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "account not found")
			return
		}

		slog.Error("Failed to get account", "chat_id", chatID, "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) findByPhone(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone_number"))
	if !account.ValidPhone(phone) {
		render.Error(w, http.StatusBadRequest, "phone_number must look like 09XXXXXXXX")
		return
	}

	a, err := h.svc.GetByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "account not found")
			return
		}

		slog.Error("Failed to find account by phone", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}
