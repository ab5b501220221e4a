package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrAlreadyRegistered = errors.New("account already registered")
	ErrInvalidPhone      = errors.New("phone number must look like 09xxxxxxxx")
	// ErrVersionConflict means the account changed between read and write.
	ErrVersionConflict = errors.New("account version conflict")
)

// Account is a user wallet identified by its chat id.
type Account struct {
	ID          uuid.UUID
	ChatID      int64
	PhoneNumber string
	FirstName   string
	Balance     decimal.Decimal
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
