package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/birr/internal/account"
	httpaccount "github.com/MrJamesThe3rd/birr/internal/http/account"
)

type fakeService struct {
	accounts map[int64]*account.Account
}

func (f *fakeService) Register(_ context.Context, p account.RegisterParams) (*account.Account, error) {
	if _, ok := f.accounts[p.ChatID]; ok {
		return nil, account.ErrAlreadyRegistered
	}

	a := &account.Account{ID: uuid.New(), ChatID: p.ChatID, PhoneNumber: p.PhoneNumber, FirstName: p.FirstName}
	f.accounts[p.ChatID] = a

	return a, nil
}

func (f *fakeService) Get(_ context.Context, chatID int64) (*account.Account, error) {
	a, ok := f.accounts[chatID]
	if !ok {
		return nil, account.ErrNotFound
	}

	return a, nil
}

func (f *fakeService) GetByPhone(_ context.Context, phone string) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.PhoneNumber == phone {
			return a, nil
		}
	}

	return nil, account.ErrNotFound
}

func TestHandler(t *testing.T) {
	svc := &fakeService{accounts: map[int64]*account.Account{
		7: {ID: uuid.New(), ChatID: 7, PhoneNumber: "0911000002", Balance: decimal.RequireFromString("12.50")},
	}}

	router := chi.NewRouter()
	httpaccount.NewHandler(svc).Routes(router)

	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Register", method: http.MethodPost, path: "/accounts", body: `{"chat_id":42,"phone_number":"0911000001","first_name":"Abebe"}`, wantStatus: http.StatusCreated},
		{name: "Register Again", method: http.MethodPost, path: "/accounts", body: `{"chat_id":42,"phone_number":"0911000001"}`, wantStatus: http.StatusConflict},
		{name: "Register Bad Phone", method: http.MethodPost, path: "/accounts", body: `{"chat_id":43,"phone_number":"12345"}`, wantStatus: http.StatusBadRequest},
		{name: "Get", method: http.MethodGet, path: "/accounts/7", wantStatus: http.StatusOK},
		{name: "Get Missing", method: http.MethodGet, path: "/accounts/99", wantStatus: http.StatusNotFound},
		{name: "Get Bad ID", method: http.MethodGet, path: "/accounts/abc", wantStatus: http.StatusBadRequest},
		{name: "Find By Phone", method: http.MethodGet, path: "/accounts?phone_number=0911000002", wantStatus: http.StatusOK},
		{name: "Find By Unknown Phone", method: http.MethodGet, path: "/accounts?phone_number=0911999999", wantStatus: http.StatusNotFound},
		{name: "Find By Bad Phone", method: http.MethodGet, path: "/accounts?phone_number=12", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	t.Run("Balance Rendered As String", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/7", nil))

		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "12.5", body["balance"])
	})
}
