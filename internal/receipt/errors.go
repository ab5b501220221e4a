package receipt

import "errors"

var (
	// ErrInvalidTransactionID means the receipt could not be retrieved for the identifier.
	// Network failures are reported the same way.
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	ErrMalformedReference   = errors.New("malformed transaction reference")
	ErrStalePayment         = errors.New("payment date outside accepted window")
	ErrRecipientMismatch    = errors.New("receipt recipient mismatch")
	ErrIncompleteReceipt    = errors.New("receipt is missing required fields")
)
