// Package checkout starts hosted Chapa payments for top-ups.
package checkout

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrCheckoutFailed = errors.New("checkout could not be started")

type Config struct {
	Secret      string
	BaseURL     string
	CallbackURL string
	ReturnURL   string
}

type Client struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

type Params struct {
	Amount      decimal.Decimal
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// Session is a started checkout the payer completes at CheckoutURL.
type Session struct {
	TxRef       string
	CheckoutURL string
}

type initializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
	Data    *struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, params Params) (*Session, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrCheckoutFailed)
	}

	txRef, err := newTxRef()
	if err != nil {
		return nil, fmt.Errorf("%w: generating tx_ref: %w", ErrCheckoutFailed, err)
	}

	body, err := json.Marshal(initializeRequest{
		Amount:      params.Amount.StringFixed(2),
		Currency:    "ETB",
		Email:       params.Email,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		PhoneNumber: params.PhoneNumber,
		TxRef:       txRef,
		CallbackURL: c.cfg.CallbackURL,
		ReturnURL:   c.cfg.ReturnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", ErrCheckoutFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrCheckoutFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.Secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrCheckoutFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrCheckoutFailed, err)
	}

	var out initializeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: decoding response: %w", ErrCheckoutFailed, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || out.Status != "success" || out.Data == nil || out.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: status %d: %v", ErrCheckoutFailed, resp.StatusCode, out.Message)
	}

	return &Session{TxRef: txRef, CheckoutURL: out.Data.CheckoutURL}, nil
}

// newTxRef returns 10 random hex characters.
func newTxRef() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
