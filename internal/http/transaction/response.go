package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type recordResponse struct {
	ID                 uuid.UUID          `json:"id"`
	TransactionID      string             `json:"transaction_id"`
	ChatID             int64              `json:"chat_id"`
	CounterpartyChatID *int64             `json:"counterparty_chat_id,omitempty"`
	Amount             decimal.Decimal    `json:"amount"`
	Type               transaction.Type   `json:"type"`
	Status             transaction.Status `json:"status"`
	BankType           string             `json:"bank_type,omitempty"`
	BankNumber         string             `json:"bank_number,omitempty"`
	ErrorMessage       string             `json:"error_message,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(r *transaction.Record) recordResponse {
	return recordResponse{
		ID:                 r.ID,
		TransactionID:      r.TransactionID,
		ChatID:             r.ChatID,
		CounterpartyChatID: r.CounterpartyChatID,
		Amount:             r.Amount,
		Type:               r.Type,
		Status:             r.Status,
		BankType:           r.BankType,
		BankNumber:         r.BankNumber,
		ErrorMessage:       r.ErrorMessage,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toResponseList(records []*transaction.Record) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, r := range records {
		resp[i] = toResponse(r)
	}

	return resp
}
