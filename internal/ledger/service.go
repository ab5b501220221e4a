package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/account"
	"github.com/MrJamesThe3rd/birr/internal/events"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	AccountByChatID(ctx context.Context, chatID int64) (*account.Account, error)
	AccountByPhone(ctx context.Context, phone string) (*account.Account, error)
	TransactionExists(ctx context.Context, transactionID string) (bool, error)
	// CreateRecord writes outside any open Tx. It is used for failed-deposit records
	// after the mutation has been rolled back.
	CreateRecord(ctx context.Context, r *transaction.Record) error

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one unit of work. UpdateAccount succeeds only if the stored version still
// matches the account's Version.
type Tx interface {
	UpdateAccount(ctx context.Context, a *account.Account) error
	CreateRecord(ctx context.Context, r *transaction.Record) error
	Commit() error
	Rollback() error
}

// amountPlaces is the precision balances are kept at.
const amountPlaces = 2

const publishTimeout = 3 * time.Second

type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type Service struct {
	repo   Repository
	events Publisher
	limits Limits
	now    func() time.Time
}

func NewService(repo Repository, publisher Publisher, limits Limits) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Service{repo: repo, events: publisher, limits: limits, now: time.Now}
}

// Used reports whether transactionID already has a record. The answer is advisory:
// Deposit still rejects duplicates that slip past it.
func (s *Service) Used(ctx context.Context, transactionID string) (bool, error) {
	used, err := s.repo.TransactionExists(ctx, transactionID)
	if err != nil {
		return false, fmt.Errorf("checking transaction id: %w", err)
	}

	return used, nil
}

func (s *Service) Deposit(ctx context.Context, params DepositParams) (*DepositResult, error) {
	params.Amount = params.Amount.Round(amountPlaces)

	acc, err := s.lookup(ctx, params.ChatID, ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount %s", ErrAmountOutOfRange, params.Amount)
	}

	rec := &transaction.Record{
		TransactionID: params.TransactionID,
		ChatID:        acc.ChatID,
		Amount:        params.Amount,
		Status:        transaction.StatusSuccess,
		Type:          transaction.TypeDeposit,
	}

	err = s.applyDeposit(ctx, acc, rec)

	switch {
	case err == nil:
	case errors.Is(err, transaction.ErrDuplicateID):
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTransaction, params.TransactionID)
	case errors.Is(err, account.ErrVersionConflict):
		return nil, fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
	default:
		s.recordFailedDeposit(ctx, params, err)
		return nil, fmt.Errorf("%w: %w", ErrDepositApplyFailed, err)
	}

	s.publish(ctx, events.Event{
		Kind:          events.KindDepositCredited,
		TransactionID: rec.TransactionID,
		ChatID:        acc.ChatID,
		Amount:        rec.Amount,
		Balance:       acc.Balance,
		OccurredAt:    s.now(),
	})

	return &DepositResult{Record: rec, Balance: acc.Balance}, nil
}

func (s *Service) applyDeposit(ctx context.Context, acc *account.Account, rec *transaction.Record) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin deposit: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateRecord(ctx, rec); err != nil {
		return err
	}

	credited := *acc
	credited.Balance = acc.Balance.Add(rec.Amount)

	if err := tx.UpdateAccount(ctx, &credited); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deposit: %w", err)
	}

	*acc = credited

	return nil
}

// recordFailedDeposit leaves a failed record annotated with the cause once the
// deposit transaction has been rolled back.
func (s *Service) recordFailedDeposit(ctx context.Context, params DepositParams, cause error) {
	rec := &transaction.Record{
		TransactionID: params.TransactionID,
		ChatID:        params.ChatID,
		Amount:        params.Amount,
		Status:        transaction.StatusFailed,
		Type:          transaction.TypeDeposit,
		ErrorMessage:  cause.Error(),
	}

	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		slog.Error("Failed to record failed deposit",
			"transaction_id", params.TransactionID, "cause", cause, "error", err)
	}
}

func (s *Service) Withdraw(ctx context.Context, params WithdrawParams) (*WithdrawalReceipt, error) {
	params.Amount = params.Amount.Round(amountPlaces)

	acc, err := s.lookup(ctx, params.ChatID, ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	if err := checkRange(params.Amount, s.limits.WithdrawMin, s.limits.WithdrawMax); err != nil {
		return nil, err
	}

	if acc.Balance.LessThan(params.Amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientBalance, acc.Balance, params.Amount)
	}

	if err := checkBankDetails(params.BankType, params.BankNumber); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &transaction.Record{
		TransactionID: newLocalID(withdrawalPrefix, now),
		ChatID:        acc.ChatID,
		Amount:        params.Amount,
		Status:        transaction.StatusPendingWithdrawal,
		Type:          transaction.TypeWithdrawal,
		BankType:      params.BankType,
		BankNumber:    params.BankNumber,
	}

	debited := *acc
	debited.Balance = acc.Balance.Sub(params.Amount)

	if err := s.commit(ctx, []*account.Account{&debited}, rec); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Kind:          events.KindWithdrawalRequested,
		TransactionID: rec.TransactionID,
		ChatID:        acc.ChatID,
		Amount:        rec.Amount,
		Balance:       debited.Balance,
		OccurredAt:    now,
	})

	return &WithdrawalReceipt{
		TransactionID: rec.TransactionID,
		Amount:        rec.Amount,
		BankType:      rec.BankType,
		BankNumber:    rec.BankNumber,
		Status:        rec.Status,
		Balance:       debited.Balance,
	}, nil
}

func (s *Service) Transfer(ctx context.Context, params TransferParams) (*TransferReceipt, error) {
	params.Amount = params.Amount.Round(amountPlaces)

	sender, err := s.lookup(ctx, params.ChatID, ErrAccountNotFound)
	if err != nil {
		return nil, err
	}

	if err := checkRange(params.Amount, s.limits.TransferMin, s.limits.TransferMax); err != nil {
		return nil, err
	}

	if sender.Balance.LessThan(params.Amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientBalance, sender.Balance, params.Amount)
	}

	recipient, err := s.repo.AccountByPhone(ctx, params.RecipientPhone)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRecipientNotFound, params.RecipientPhone)
		}

		return nil, fmt.Errorf("looking up recipient: %w", err)
	}

	if recipient.ID == sender.ID {
		return nil, ErrSelfTransferRejected
	}

	now := s.now()
	rec := &transaction.Record{
		TransactionID:      newLocalID(transferPrefix, now),
		ChatID:             sender.ChatID,
		CounterpartyChatID: new(recipient.ChatID),
		Amount:             params.Amount,
		Status:             transaction.StatusCompleted,
		Type:               transaction.TypeTransfer,
	}

	debited := *sender
	debited.Balance = sender.Balance.Sub(params.Amount)

	credited := *recipient
	credited.Balance = recipient.Balance.Add(params.Amount)

	if err := s.commit(ctx, []*account.Account{&debited, &credited}, rec); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Kind:               events.KindTransferCompleted,
		TransactionID:      rec.TransactionID,
		ChatID:             sender.ChatID,
		CounterpartyChatID: rec.CounterpartyChatID,
		Amount:             rec.Amount,
		Balance:            debited.Balance,
		OccurredAt:         now,
	})

	return &TransferReceipt{
		TransactionID:   rec.TransactionID,
		Amount:          rec.Amount,
		RecipientChatID: recipient.ChatID,
		RecipientName:   recipient.FirstName,
		RecipientPhone:  recipient.PhoneNumber,
		Balance:         debited.Balance,
	}, nil
}

// commit writes rec and every account update in one transaction.
func (s *Service) commit(ctx context.Context, accounts []*account.Account, rec *transaction.Record) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", rec.Type, err)
	}
	defer tx.Rollback()

	if err := tx.CreateRecord(ctx, rec); err != nil {
		return fmt.Errorf("recording %s: %w", rec.Type, err)
	}

	for _, a := range accounts {
		if err := tx.UpdateAccount(ctx, a); err != nil {
			if errors.Is(err, account.ErrVersionConflict) {
				return fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
			}

			return fmt.Errorf("updating account %d: %w", a.ChatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", rec.Type, err)
	}

	return nil
}

func (s *Service) lookup(ctx context.Context, chatID int64, notFound error) (*account.Account, error) {
	acc, err := s.repo.AccountByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, fmt.Errorf("%w: chat %d", notFound, chatID)
		}

		return nil, fmt.Errorf("looking up account: %w", err)
	}

	return acc, nil
}

// publish is best effort. The mutation has already committed, so the caller's
// cancellation does not apply but the broker call is still bounded.
func (s *Service) publish(ctx context.Context, e events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish ledger event", "kind", e.Kind, "transaction_id", e.TransactionID, "error", err)
	}
}

func checkRange(amount, lo, hi decimal.Decimal) error {
	if amount.LessThan(lo) || amount.GreaterThan(hi) {
		return fmt.Errorf("%w: %s must be between %s and %s", ErrAmountOutOfRange, amount, lo, hi)
	}

	return nil
}

func checkBankDetails(bankType, bankNumber string) error {
	switch bankType {
	case transaction.BankCBE, transaction.BankCBEBirrWallet:
	default:
		return fmt.Errorf("%w: unknown bank type %q", ErrInvalidBankDetails, bankType)
	}

	if bankNumber == "" {
		return fmt.Errorf("%w: bank number is required", ErrInvalidBankDetails)
	}

	for _, r := range bankNumber {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: bank number must be numeric", ErrInvalidBankDetails)
		}
	}

	return nil
}
