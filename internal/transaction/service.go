package transaction

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Record, error)
	ListRecords(ctx context.Context, filter ListFilter) ([]*Record, error)
	// UpdateStatus moves a record from one status to another and reports ErrInvalidTransition
	// when the record is not currently in from.
	UpdateStatus(ctx context.Context, transactionID string, from, to Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	ChatID *int64
	Status *Status
	Type   *Type
	Limit  int
}

func (s *Service) Get(ctx context.Context, transactionID string) (*Record, error) {
	return s.repo.GetByTransactionID(ctx, transactionID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListRecords(ctx, filter)
}

// PendingWithdrawals lists withdrawals waiting for manual payout.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]*Record, error) {
	return s.repo.ListRecords(ctx, ListFilter{
		Status: new(StatusPendingWithdrawal),
		Type:   new(TypeWithdrawal),
	})
}

// SettleWithdrawal marks a paid-out withdrawal as completed.
func (s *Service) SettleWithdrawal(ctx context.Context, transactionID string) (*Record, error) {
	r, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if r.Type != TypeWithdrawal || r.Status != StatusPendingWithdrawal {
		return nil, fmt.Errorf("%w: %s %s cannot be settled", ErrInvalidTransition, r.Type, r.Status)
	}

	if err := s.repo.UpdateStatus(ctx, transactionID, StatusPendingWithdrawal, StatusCompleted); err != nil {
		return nil, fmt.Errorf("settling withdrawal: %w", err)
	}

	r.Status = StatusCompleted

	return r, nil
}
