package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/birr/internal/account"
	"github.com/MrJamesThe3rd/birr/internal/database"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, chat_id, phone_number, first_name, balance, version, created_at, updated_at
func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account
	if err := s.Scan(
		&a.ID, &a.ChatID, &a.PhoneNumber, &a.FirstName, &a.Balance, &a.Version,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &a, nil
}

const selectAccountColumns = `id, chat_id, phone_number, first_name, balance, version, created_at, updated_at`

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (chat_id, phone_number, first_name, balance, version, created_at)
		VALUES ($1, $2, $3, $4, 0, NOW())
		RETURNING id, version, created_at
	`

	err := s.db.QueryRowContext(ctx, query, a.ChatID, a.PhoneNumber, a.FirstName, a.Balance).
		Scan(&a.ID, &a.Version, &a.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return account.ErrAlreadyRegistered
		}

		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetByChatID(ctx context.Context, chatID int64) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE chat_id = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE phone_number = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account by phone: %w", err)
	}

	return a, nil
}

// UpdateBalance writes a.Balance if the stored version still equals a.Version and
// bumps the version on success.
func (s *Store) UpdateBalance(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	res, err := s.db.ExecContext(ctx, query, a.Balance, a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}

	if n == 0 {
		return account.ErrVersionConflict
	}

	a.Version++

	return nil
}
