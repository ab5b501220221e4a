// Package events publishes committed ledger changes to Kafka.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDepositCredited     Kind = "deposit.credited"
	KindWithdrawalRequested Kind = "withdrawal.requested"
	KindTransferCompleted   Kind = "transfer.completed"
)

// Event describes one committed ledger mutation.
type Event struct {
	Kind               Kind            `json:"kind"`
	TransactionID      string          `json:"transaction_id"`
	ChatID             int64           `json:"chat_id"`
	CounterpartyChatID *int64          `json:"counterparty_chat_id,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	Balance            decimal.Decimal `json:"balance"`
	OccurredAt         time.Time       `json:"occurred_at"`
}
