package store_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/birr/internal/account"
	"github.com/MrJamesThe3rd/birr/internal/account/store"
)

var accountColumns = []string{"id", "chat_id", "phone_number", "first_name", "balance", "version", "created_at", "updated_at"}

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_CreateAccount(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	type testCase struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
	}

	tests := []testCase{
		{
			name: "Success",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WithArgs(int64(42), "0911223344", "Abebe", decimal.Zero).
					WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at"}).AddRow(id.String(), 0, now))
			},
		},
		{
			name: "Duplicate",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_number_key"})
			},
			wantErr: account.ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			tt.setup(mock)

			a := &account.Account{ChatID: 42, PhoneNumber: "0911223344", FirstName: "Abebe"}
			err := s.CreateAccount(context.Background(), a)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, a.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_GetByChatID(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE chat_id = $1")).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(id.String(), 42, "0911223344", "Abebe", "150.50", 3, now, nil))

		got, err := s.GetByChatID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.True(t, decimal.RequireFromString("150.50").Equal(got.Balance))
		assert.Equal(t, int64(3), got.Version)
		assert.Nil(t, got.UpdatedAt)
	})

	t.Run("Not Found", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE chat_id = $1")).
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByChatID(context.Background(), 42)
		assert.ErrorIs(t, err, account.ErrNotFound)
	})
}

func TestStore_GetByPhone(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE phone_number = $1")).
		WithArgs("0911223344").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := s.GetByPhone(context.Background(), "0911223344")
	assert.ErrorIs(t, err, account.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateBalance(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name        string
		result      sql.Result
		wantErr     error
		wantVersion int64
	}

	tests := []testCase{
		{name: "Success", result: sqlmock.NewResult(0, 1), wantVersion: 5},
		{name: "Version Conflict", result: sqlmock.NewResult(0, 0), wantErr: account.ErrVersionConflict, wantVersion: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)

			balance := decimal.RequireFromString("75.00")
			mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
				WithArgs(balance, id, int64(4)).
				WillReturnResult(tt.result)

			a := &account.Account{ID: id, Balance: balance, Version: 4}
			err := s.UpdateBalance(context.Background(), a)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantVersion, a.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
