package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/birr/internal/account"
	accountstore "github.com/MrJamesThe3rd/birr/internal/account/store"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
	transactionstore "github.com/MrJamesThe3rd/birr/internal/transaction/store"
)

type Store struct {
	db           *sql.DB
	accounts     *accountstore.Store
	transactions *transactionstore.Store
}

func New(db *sql.DB) *Store {
	return &Store{
		db:           db,
		accounts:     accountstore.New(db),
		transactions: transactionstore.New(db),
	}
}

func (s *Store) AccountByChatID(ctx context.Context, chatID int64) (*account.Account, error) {
	return s.accounts.GetByChatID(ctx, chatID)
}

func (s *Store) AccountByPhone(ctx context.Context, phone string) (*account.Account, error) {
	return s.accounts.GetByPhone(ctx, phone)
}

func (s *Store) TransactionExists(ctx context.Context, transactionID string) (bool, error) {
	return s.transactions.Exists(ctx, transactionID)
}

func (s *Store) CreateRecord(ctx context.Context, r *transaction.Record) error {
	return s.transactions.CreateRecord(ctx, r)
}

type ledgerTx struct {
	tx           *sql.Tx
	accounts     *accountstore.Store
	transactions *transactionstore.Store
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{
		tx:           dbTx,
		accounts:     accountstore.New(dbTx),
		transactions: transactionstore.New(dbTx),
	}, nil
}

func (lt *ledgerTx) UpdateAccount(ctx context.Context, a *account.Account) error {
	return lt.accounts.UpdateBalance(ctx, a)
}

func (lt *ledgerTx) CreateRecord(ctx context.Context, r *transaction.Record) error {
	return lt.transactions.CreateRecord(ctx, r)
}

func (lt *ledgerTx) Commit() error   { return lt.tx.Commit() }
func (lt *ledgerTx) Rollback() error { return lt.tx.Rollback() }
