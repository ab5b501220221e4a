// Package ledger applies deposits, withdrawals and transfers to account balances.
// Each mutation and its transaction record commit together in one database
// transaction; the unique transaction id is the only duplicate guard relied on.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDepositApplyFailed   = errors.New("deposit could not be applied")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrSelfTransferRejected = errors.New("cannot transfer to own account")
	ErrAmountOutOfRange     = errors.New("amount out of range")
	ErrInvalidBankDetails   = errors.New("invalid bank details")
	// ErrConcurrentUpdate means an account changed while the mutation was in flight.
	// Nothing was written; the caller may resubmit.
	ErrConcurrentUpdate = errors.New("account was modified concurrently")
)

// Limits bounds withdrawal and transfer amounts, inclusive.
type Limits struct {
	WithdrawMin decimal.Decimal
	WithdrawMax decimal.Decimal
	TransferMin decimal.Decimal
	TransferMax decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		WithdrawMin: decimal.NewFromInt(25),
		WithdrawMax: decimal.NewFromInt(1000),
		TransferMin: decimal.NewFromInt(10),
		TransferMax: decimal.NewFromInt(10000),
	}
}

type DepositParams struct {
	TransactionID string
	ChatID        int64
	// Amount must come from the verified receipt.
	Amount decimal.Decimal
}

type DepositResult struct {
	Record  *transaction.Record
	Balance decimal.Decimal
}

type WithdrawParams struct {
	ChatID     int64
	Amount     decimal.Decimal
	BankType   string
	BankNumber string
}

type WithdrawalReceipt struct {
	TransactionID string
	Amount        decimal.Decimal
	BankType      string
	BankNumber    string
	Status        transaction.Status
	Balance       decimal.Decimal
}

type TransferParams struct {
	ChatID         int64
	Amount         decimal.Decimal
	RecipientPhone string
}

type TransferReceipt struct {
	TransactionID   string
	Amount          decimal.Decimal
	RecipientChatID int64
	RecipientName   string
	RecipientPhone  string
	Balance         decimal.Decimal
}
