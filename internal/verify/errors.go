package verify

import (
	"errors"

	"github.com/MrJamesThe3rd/birr/internal/claim"
	"github.com/MrJamesThe3rd/birr/internal/extract"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/receipt"
)

// Error is returned by VerifyDeposit. Message is safe to show the user; Err carries
// the sentinel and the internal cause.
type Error struct {
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

const fallbackMessage = "Something went wrong while verifying your payment. Please try again later."

var messages = []struct {
	err     error
	message string
}{
	{receipt.ErrMalformedReference, "That is not a valid CBE transaction ID. It starts with FT and is 12 characters long."},
	{receipt.ErrInvalidTransactionID, "We could not find a receipt for that transaction ID. Please check it and try again."},
	{receipt.ErrStalePayment, "This payment is too old to verify. Only payments made within the last day are accepted."},
	{receipt.ErrRecipientMismatch, "This payment was not made to our account."},
	{receipt.ErrIncompleteReceipt, "This does not look like a complete CBE receipt. Please check the transaction ID."},
	{extract.ErrExtraction, "We could not read this receipt. Please try again later."},
	{ledger.ErrAccountNotFound, "You need to register before making a deposit."},
	{claim.ErrHeld, "This transaction ID is already being verified."},
	{ledger.ErrDuplicateTransaction, "This transaction ID has already been used."},
	{ledger.ErrConcurrentUpdate, "Your account was busy. Please send the transaction ID again."},
	{ledger.ErrDepositApplyFailed, "Your payment was verified but your balance could not be updated. Please contact support."},
}

// Message returns the user-facing text for err.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}

	return fallbackMessage
}

func newError(stage string, err error) *Error {
	return &Error{Stage: stage, Message: Message(err), Err: err}
}
