package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/birr/internal/database"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

const transactionIDConstraint = "transactions_transaction_id_key"

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a record row from the scanner.
// Expected column order: id, transaction_id, chat_id, counterparty_chat_id, amount, status, type,
// bank_type, bank_number, error_message, created_at, updated_at
func scanRecord(s scanner) (*transaction.Record, error) {
	var r transaction.Record

	var statusStr, typeStr string

	var counterparty sql.NullInt64

	if err := s.Scan(
		&r.ID, &r.TransactionID, &r.ChatID, &counterparty, &r.Amount, &statusStr, &typeStr,
		&r.BankType, &r.BankNumber, &r.ErrorMessage, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Status = transaction.Status(statusStr)
	r.Type = transaction.Type(typeStr)

	if counterparty.Valid {
		r.CounterpartyChatID = &counterparty.Int64
	}

	return &r, nil
}

const selectRecordColumns = `
	id, transaction_id, chat_id, counterparty_chat_id, amount, status, type,
	bank_type, bank_number, error_message, created_at, updated_at
`

// CreateRecord inserts r. A clash on transaction_id is reported as transaction.ErrDuplicateID.
func (s *Store) CreateRecord(ctx context.Context, r *transaction.Record) error {
	query := `
		INSERT INTO transactions (transaction_id, chat_id, counterparty_chat_id, amount, status, type,
			bank_type, bank_number, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.TransactionID,
		r.ChatID,
		r.CounterpartyChatID,
		r.Amount,
		r.Status,
		r.Type,
		r.BankType,
		r.BankNumber,
		r.ErrorMessage,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, transactionIDConstraint) {
			return fmt.Errorf("%w: %s", transaction.ErrDuplicateID, r.TransactionID)
		}

		return fmt.Errorf("creating record: %w", err)
	}

	return nil
}

func (s *Store) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.Record, error) {
	query := `SELECT ` + selectRecordColumns + ` FROM transactions WHERE transaction_id = $1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting record: %w", err)
	}

	return r, nil
}

func (s *Store) Exists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`, transactionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking record: %w", err)
	}

	return exists, nil
}

func (s *Store) ListRecords(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Record, error) {
	query := `SELECT ` + selectRecordColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.ChatID != nil {
		query += fmt.Sprintf(" AND (chat_id = $%d OR counterparty_chat_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.ChatID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*transaction.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return records, nil
}

func (s *Store) UpdateStatus(ctx context.Context, transactionID string, from, to transaction.Status) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE transaction_id = $2 AND status = $3
	`

	res, err := s.db.ExecContext(ctx, query, to, transactionID, from)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s is not %s", transaction.ErrInvalidTransition, transactionID, from)
	}

	return nil
}
