package verify

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrJamesThe3rd/birr/internal/claim"
	"github.com/MrJamesThe3rd/birr/internal/extract"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/receipt"
)

var (
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "birr_deposit_verifications_total",
		Help: "Deposit verifications by outcome",
	}, []string{"outcome"})

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "birr_deposit_stage_duration_seconds",
		Help:    "Deposit pipeline stage latency",
		Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})
)

var outcomes = []struct {
	err   error
	label string
}{
	{receipt.ErrMalformedReference, "malformed_reference"},
	{receipt.ErrInvalidTransactionID, "invalid_transaction_id"},
	{receipt.ErrStalePayment, "stale_payment"},
	{receipt.ErrRecipientMismatch, "recipient_mismatch"},
	{receipt.ErrIncompleteReceipt, "incomplete_receipt"},
	{extract.ErrExtraction, "extraction_failed"},
	{ledger.ErrAccountNotFound, "account_not_found"},
	{claim.ErrHeld, "duplicate"},
	{ledger.ErrDuplicateTransaction, "duplicate"},
	{ledger.ErrConcurrentUpdate, "concurrent_update"},
	{ledger.ErrDepositApplyFailed, "apply_failed"},
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}

	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}

	return "error"
}
