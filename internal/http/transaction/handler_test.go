package transaction_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransaction "github.com/MrJamesThe3rd/birr/internal/http/transaction"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type fakeService struct {
	records map[string]*transaction.Record
	filter  transaction.ListFilter
}

func (f *fakeService) Get(_ context.Context, id string) (*transaction.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return r, nil
}

func (f *fakeService) List(_ context.Context, filter transaction.ListFilter) ([]*transaction.Record, error) {
	f.filter = filter

	out := make([]*transaction.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}

	return out, nil
}

func (f *fakeService) PendingWithdrawals(context.Context) ([]*transaction.Record, error) {
	var out []*transaction.Record
	for _, r := range f.records {
		if r.Type == transaction.TypeWithdrawal && r.Status == transaction.StatusPendingWithdrawal {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeService) SettleWithdrawal(ctx context.Context, id string) (*transaction.Record, error) {
	r, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.Status != transaction.StatusPendingWithdrawal {
		return nil, fmt.Errorf("%w: already %s", transaction.ErrInvalidTransition, r.Status)
	}

	r.Status = transaction.StatusCompleted

	return r, nil
}

func newRouter() (*chi.Mux, *fakeService) {
	svc := &fakeService{records: map[string]*transaction.Record{
		"WD01": {TransactionID: "WD01", ChatID: 42, Amount: decimal.NewFromInt(100), Type: transaction.TypeWithdrawal, Status: transaction.StatusPendingWithdrawal},
	}}

	r := chi.NewRouter()
	httptransaction.NewHandler(svc).Routes(r)

	return r, svc
}

func TestHandler_Settle(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Not Found", path: "/withdrawals/WD99/settle", wantStatus: http.StatusNotFound},
		{name: "Settled", path: "/withdrawals/WD01/settle", wantStatus: http.StatusOK},
	}

	router, _ := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("Twice", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals/WD01/settle", nil))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	router, svc := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions?status=pending_withdrawal&type=withdrawal&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.filter.Status)
	assert.Equal(t, transaction.StatusPendingWithdrawal, *svc.filter.Status)
	assert.Equal(t, 5, svc.filter.Limit)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "WD01", body[0]["transaction_id"])
	assert.Equal(t, "100", body[0]["amount"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListForAccount(t *testing.T) {
	router, svc := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/42/transactions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.ChatID)
	assert.Equal(t, int64(42), *svc.filter.ChatID)
	assert.Equal(t, 100, svc.filter.Limit)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/abc/transactions", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_PendingWithdrawals(t *testing.T) {
	router, svc := newRouter()
	svc.records["WD02"] = &transaction.Record{TransactionID: "WD02", Type: transaction.TypeWithdrawal, Status: transaction.StatusCompleted}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/withdrawals/pending", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "WD01", body[0]["transaction_id"])
}
