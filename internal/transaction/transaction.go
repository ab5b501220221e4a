package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateID is returned when a record with the same transaction id already exists.
	ErrDuplicateID       = errors.New("transaction id already recorded")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Type represents the kind of ledger movement.
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeTransfer   Type = "transfer"
)

// Status represents the lifecycle state of a record.
type Status string

const (
	StatusSuccess           Status = "success"
	StatusFailed            Status = "failed"
	StatusPendingWithdrawal Status = "pending_withdrawal"
	StatusCompleted         Status = "completed"
)

// Bank types a withdrawal can be paid out to.
const (
	BankCBE           = "cbe"
	BankCBEBirrWallet = "cbe_birr_wallet"
)

// Record is one ledger entry. TransactionID is globally unique.
type Record struct {
	ID                 uuid.UUID
	TransactionID      string
	ChatID             int64
	CounterpartyChatID *int64
	Amount             decimal.Decimal
	Status             Status
	Type               Type
	BankType           string
	BankNumber         string
	ErrorMessage       string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}
