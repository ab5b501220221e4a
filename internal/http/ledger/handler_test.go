package ledger_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	httpledger "github.com/MrJamesThe3rd/birr/internal/http/ledger"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type fakeService struct {
	withdrawErr error
	transferErr error
	withdrawals []ledger.WithdrawParams
}

func (f *fakeService) Withdraw(_ context.Context, p ledger.WithdrawParams) (*ledger.WithdrawalReceipt, error) {
	f.withdrawals = append(f.withdrawals, p)

	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}

	return &ledger.WithdrawalReceipt{TransactionID: "WD01", Amount: p.Amount, Status: transaction.StatusPendingWithdrawal}, nil
}

func (f *fakeService) Transfer(_ context.Context, p ledger.TransferParams) (*ledger.TransferReceipt, error) {
	if f.transferErr != nil {
		return nil, f.transferErr
	}

	return &ledger.TransferReceipt{TransactionID: "TR01", Amount: p.Amount, RecipientPhone: p.RecipientPhone}, nil
}

func TestHandler(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		body       string
		svc        *fakeService
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Withdraw",
			path:       "/withdrawals",
			body:       `{"chat_id":42,"amount":"100","bank_type":"cbe","bank_number":"1000123456789"}`,
			svc:        &fakeService{},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Withdraw Unknown Bank",
			path:       "/withdrawals",
			body:       `{"chat_id":42,"amount":"100","bank_type":"awash","bank_number":"1000123456789"}`,
			svc:        &fakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Withdraw Above Cap",
			path:       "/withdrawals",
			body:       `{"chat_id":42,"amount":"1500","bank_type":"cbe_birr_wallet","bank_number":"0911223344"}`,
			svc:        &fakeService{withdrawErr: ledger.ErrAmountOutOfRange},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "Withdraw Storage Error",
			path:       "/withdrawals",
			body:       `{"chat_id":42,"amount":"100","bank_type":"cbe","bank_number":"1"}`,
			svc:        &fakeService{withdrawErr: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Transfer",
			path:       "/transfers",
			body:       `{"chat_id":42,"amount":20,"recipient_phone":"0911000002"}`,
			svc:        &fakeService{},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Transfer Bad Phone",
			path:       "/transfers",
			body:       `{"chat_id":42,"amount":20,"recipient_phone":"911000002"}`,
			svc:        &fakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Transfer To Self",
			path:       "/transfers",
			body:       `{"chat_id":42,"amount":20,"recipient_phone":"0911000001"}`,
			svc:        &fakeService{transferErr: ledger.ErrSelfTransferRejected},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "Transfer Unknown Recipient",
			path:       "/transfers",
			body:       `{"chat_id":42,"amount":20,"recipient_phone":"0911000003"}`,
			svc:        &fakeService{transferErr: ledger.ErrRecipientNotFound},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			httpledger.NewHandler(tt.svc).Routes(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandler_WithdrawPassesAmountThrough(t *testing.T) {
	svc := &fakeService{}
	router := chi.NewRouter()
	httpledger.NewHandler(svc).Routes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals",
		strings.NewReader(`{"chat_id":42,"amount":"250.75","bank_type":"cbe","bank_number":"1000123456789"}`)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.withdrawals, 1)
	assert.True(t, decimal.RequireFromString("250.75").Equal(svc.withdrawals[0].Amount))
}
