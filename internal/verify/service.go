// Package verify runs the deposit pipeline: a submitted transaction id is checked,
// its receipt fetched, read and validated, and the receipt amount credited once.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/claim"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/receipt"
)

type Fetcher interface {
	Fetch(ctx context.Context, transactionID string) ([]byte, error)
}

type Extractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

type Ledger interface {
	Used(ctx context.Context, transactionID string) (bool, error)
	Deposit(ctx context.Context, params ledger.DepositParams) (*ledger.DepositResult, error)
}

type Claimer interface {
	Claim(ctx context.Context, transactionID string) (*claim.Lease, error)
}

// Confirmation describes a credited deposit.
type Confirmation struct {
	TransactionID string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	PaymentDate   time.Time
	Message       string
}

type Service struct {
	fetcher   Fetcher
	extractor Extractor
	parser    *receipt.Parser
	validator *receipt.Validator
	ledger    Ledger
	claims    Claimer
}

type Params struct {
	Fetcher   Fetcher
	Extractor Extractor
	Parser    *receipt.Parser
	Validator *receipt.Validator
	Ledger    Ledger
	// Claims is optional.
	Claims Claimer
}

func NewService(p Params) *Service {
	claims := p.Claims
	if claims == nil {
		claims = claim.Noop{}
	}

	return &Service{
		fetcher:   p.Fetcher,
		extractor: p.Extractor,
		parser:    p.Parser,
		validator: p.Validator,
		ledger:    p.Ledger,
		claims:    claims,
	}
}

// VerifyDeposit credits chatID with the amount on the receipt for transactionID.
// Every failure is a *Error.
func (s *Service) VerifyDeposit(ctx context.Context, transactionID string, chatID int64) (*Confirmation, error) {
	id := receipt.NormalizeReference(transactionID)

	conf, stage, err := s.verify(ctx, id, chatID)
	verificationsTotal.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		vErr := newError(stage, err)
		slog.Warn("Deposit verification failed",
			"transaction_id", id, "chat_id", chatID, "stage", stage, "error", err)

		return nil, vErr
	}

	slog.Info("Deposit verified",
		"transaction_id", id, "chat_id", chatID, "amount", conf.Amount.StringFixed(2))

	return conf, nil
}

func (s *Service) verify(ctx context.Context, id string, chatID int64) (*Confirmation, string, error) {
	if err := receipt.ValidateReference(id); err != nil {
		return nil, "reference", err
	}

	used, err := timed("lookup", func() (bool, error) { return s.ledger.Used(ctx, id) })
	if err != nil {
		return nil, "lookup", err
	}

	if used {
		return nil, "lookup", fmt.Errorf("%w: %s", ledger.ErrDuplicateTransaction, id)
	}

	lease, err := s.claims.Claim(ctx, id)

	switch {
	case errors.Is(err, claim.ErrHeld):
		return nil, "claim", fmt.Errorf("%w: %w", ledger.ErrDuplicateTransaction, err)
	case err != nil:
		slog.Warn("Claim unavailable, continuing without it", "transaction_id", id, "error", err)
	default:
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("Failed to release claim", "transaction_id", id, "error", err)
			}
		}()
	}

	doc, err := timed("fetch", func() ([]byte, error) { return s.fetcher.Fetch(ctx, id) })
	if err != nil {
		return nil, "fetch", err
	}

	text, err := timed("extract", func() (string, error) { return s.extractor.Extract(ctx, doc) })
	if err != nil {
		return nil, "extract", err
	}

	rec := s.parser.Parse(text)
	if rec.Empty() {
		return nil, "parse", fmt.Errorf("%w: no reference, date or amount found", receipt.ErrIncompleteReceipt)
	}

	switch {
	case rec.Reference == "":
		rec.Reference = id
	case rec.Reference != id:
		return nil, "validate", fmt.Errorf("%w: receipt is for %s", receipt.ErrMalformedReference, rec.Reference)
	}

	rec, err = s.validator.Validate(rec)
	if err != nil {
		return nil, "validate", err
	}

	// The balance write is not cancellable once started.
	res, err := timed("deposit", func() (*ledger.DepositResult, error) {
		return s.ledger.Deposit(context.WithoutCancel(ctx), ledger.DepositParams{
			TransactionID: id,
			ChatID:        chatID,
			Amount:        rec.Amount.Decimal,
		})
	})
	if err != nil {
		return nil, "deposit", err
	}

	return &Confirmation{
		TransactionID: id,
		Amount:        res.Record.Amount,
		Balance:       res.Balance,
		PaymentDate:   rec.PaymentDate,
		Message: fmt.Sprintf("Deposit of %s ETB confirmed. Your balance is %s ETB.",
			res.Record.Amount.StringFixed(2), res.Balance.StringFixed(2)),
	}, "", nil
}

func timed[T any](stage string, fn func() (T, error)) (T, error) {
	timer := prometheus.NewTimer(stageLatency.WithLabelValues(stage))
	defer timer.ObserveDuration()

	return fn()
}
