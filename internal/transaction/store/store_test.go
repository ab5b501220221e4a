package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/birr/internal/transaction"
	"github.com/MrJamesThe3rd/birr/internal/transaction/store"
)

var recordColumns = []string{
	"id", "transaction_id", "chat_id", "counterparty_chat_id", "amount", "status", "type",
	"bank_type", "bank_number", "error_message", "created_at", "updated_at",
}

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_CreateRecord(t *testing.T) {
	type testCase struct {
		name    string
		err     error
		wantErr error
	}

	tests := []testCase{
		{name: "Success"},
		{
			name:    "Duplicate Transaction ID",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "transactions_transaction_id_key"},
			wantErr: transaction.ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)

			exp := mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
				WithArgs("FTAB12CD34EF", int64(42), nil, decimal.NewFromInt(500), transaction.StatusSuccess,
					transaction.TypeDeposit, "", "", "")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), time.Now()))
			}

			r := &transaction.Record{
				TransactionID: "FTAB12CD34EF",
				ChatID:        42,
				Amount:        decimal.NewFromInt(500),
				Status:        transaction.StatusSuccess,
				Type:          transaction.TypeDeposit,
			}
			err := s.CreateRecord(context.Background(), r)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, r.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_GetByTransactionID(t *testing.T) {
	t.Run("Transfer With Counterparty", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE transaction_id = $1")).
			WithArgs("TR01JABC").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
				uuid.NewString(), "TR01JABC", 42, 7, "20.00", "completed", "transfer", "", "", "", time.Now(), nil,
			))

		got, err := s.GetByTransactionID(context.Background(), "TR01JABC")
		require.NoError(t, err)
		require.NotNil(t, got.CounterpartyChatID)
		assert.Equal(t, int64(7), *got.CounterpartyChatID)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
		assert.Equal(t, transaction.TypeTransfer, got.Type)
	})

	t.Run("Not Found", func(t *testing.T) {
		s, mock := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE transaction_id = $1")).
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByTransactionID(context.Background(), "TR01JABC")
		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})
}

func TestStore_Exists(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("FTAB12CD34EF").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.Exists(context.Background(), "FTAB12CD34EF")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_ListRecords(t *testing.T) {
	type testCase struct {
		name      string
		filter    transaction.ListFilter
		wantQuery string
		wantArgs  []any
	}

	tests := []testCase{
		{
			name:      "No Filter",
			wantQuery: "WHERE TRUE ORDER BY created_at DESC",
		},
		{
			name:      "Chat And Status",
			filter:    transaction.ListFilter{ChatID: new(int64(42)), Status: new(transaction.StatusPendingWithdrawal)},
			wantQuery: "WHERE TRUE AND (chat_id = $1 OR counterparty_chat_id = $1) AND status = $2 ORDER BY created_at DESC",
			wantArgs:  []any{int64(42), transaction.StatusPendingWithdrawal},
		},
		{
			name:      "Type With Limit",
			filter:    transaction.ListFilter{Type: new(transaction.TypeDeposit), Limit: 20},
			wantQuery: "WHERE TRUE AND type = $1 ORDER BY created_at DESC LIMIT $2",
			wantArgs:  []any{transaction.TypeDeposit, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)

			exp := mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery))
			if len(tt.wantArgs) > 0 {
				exp.WithArgs(toDriverArgs(tt.wantArgs)...)
			}

			exp.WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
				uuid.NewString(), "FTAB12CD34EF", 42, nil, "500", "success", "deposit", "", "", "", time.Now(), nil,
			))

			got, err := s.ListRecords(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Nil(t, got[0].CounterpartyChatID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func toDriverArgs(args []any) []driver.Value {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a
	}

	return values
}

func TestStore_UpdateStatus(t *testing.T) {
	type testCase struct {
		name    string
		result  sql.Result
		wantErr error
	}

	tests := []testCase{
		{name: "Success", result: sqlmock.NewResult(0, 1)},
		{name: "Not Pending", result: sqlmock.NewResult(0, 0), wantErr: transaction.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions")).
				WithArgs(transaction.StatusCompleted, "WD01JABC", transaction.StatusPendingWithdrawal).
				WillReturnResult(tt.result)

			err := s.UpdateStatus(context.Background(), "WD01JABC", transaction.StatusPendingWithdrawal, transaction.StatusCompleted)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
