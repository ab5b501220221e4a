// Package receipt turns the flat text of a CBE payment receipt into typed fields
// and checks them against the expected recipient.
package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt holds the fields extracted from a receipt. Every field is optional:
// a field whose pattern did not match is left at its zero value.
type Receipt struct {
	Amount         decimal.NullDecimal
	PayerSuffix    string
	ReceiverName   string
	ReceiverSuffix string
	Reference      string
	// PaymentDate is zero when the date was missing or could not be parsed.
	PaymentDate    time.Time
	RawPaymentDate string
}

// Empty reports whether nothing that identifies a payment was found: no reference,
// no payment date and no amount. Error pages and other non-receipt bodies parse this way.
func (r Receipt) Empty() bool {
	return r.Reference == "" && r.PaymentDate.IsZero() && !r.Amount.Valid
}

// Expected is the recipient identity every accepted receipt must name.
type Expected struct {
	ReceiverName   string
	ReceiverSuffix string
}
