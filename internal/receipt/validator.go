package receipt

import (
	"fmt"
	"strings"
	"time"
)

// Validator checks parsed receipts against the expected recipient and a reference clock.
type Validator struct {
	expected Expected
	loc      *time.Location
	now      func() time.Time
}

func NewValidator(expected Expected, loc *time.Location, now func() time.Time) *Validator {
	if loc == nil {
		loc = time.UTC
	}

	if now == nil {
		now = time.Now
	}

	return &Validator{expected: expected, loc: loc, now: now}
}

// Validate returns rec unchanged when it passes every check.
// Checks run in order: reference, payment date, receiver account, receiver name, amount.
func (v *Validator) Validate(rec Receipt) (Receipt, error) {
	if err := ValidateReference(rec.Reference); err != nil {
		return Receipt{}, err
	}

	if !v.withinWindow(rec.PaymentDate) {
		return Receipt{}, fmt.Errorf("%w: payment date %q", ErrStalePayment, rec.RawPaymentDate)
	}

	if rec.ReceiverSuffix != v.expected.ReceiverSuffix {
		return Receipt{}, fmt.Errorf("%w: receiver account does not match", ErrRecipientMismatch)
	}

	if strings.TrimSpace(rec.ReceiverName) != v.expected.ReceiverName {
		return Receipt{}, fmt.Errorf("%w: receiver name does not match", ErrRecipientMismatch)
	}

	if !rec.Amount.Valid || !rec.Amount.Decimal.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: amount", ErrIncompleteReceipt)
	}

	return rec, nil
}

// withinWindow reports whether paid falls on yesterday, today or tomorrow in the receipt timezone.
func (v *Validator) withinWindow(paid time.Time) bool {
	if paid.IsZero() {
		return false
	}

	today := civilDay(v.now().In(v.loc))
	day := civilDay(paid.In(v.loc))

	for offset := -1; offset <= 1; offset++ {
		if day.Equal(today.AddDate(0, 0, offset)) {
			return true
		}
	}

	return false
}

func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
