// Package fetch downloads receipt documents from the bank's receipt endpoint.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrJamesThe3rd/birr/internal/receipt"
)

const maxBodyBytes = 10 << 20

type Config struct {
	BaseURL string
	// AccountSuffix is concatenated to the transaction id to form the lookup id.
	AccountSuffix string
	MinBytes      int
	// InsecureTLS skips certificate verification. The receipt endpoint serves a
	// certificate that does not verify; nothing else uses this client.
	InsecureTLS bool
	Timeout     time.Duration
}

// Client retrieves receipt documents.
type Client struct {
	baseURL  *url.URL
	suffix   string
	minBytes int
	client   *http.Client
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt base url: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // receipt endpoint only
	}

	return &Client{
		baseURL:  base,
		suffix:   cfg.AccountSuffix,
		minBytes: cfg.MinBytes,
		client:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}, nil
}

// URL returns the lookup URL for transactionID.
func (c *Client) URL(transactionID string) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("id", transactionID+c.suffix)
	u.RawQuery = q.Encode()

	return u.String()
}

// Fetch downloads the receipt for transactionID. Every failure, including transport
// errors, wraps receipt.ErrInvalidTransactionID.
func (c *Client) Fetch(ctx context.Context, transactionID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(transactionID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", receipt.ErrInvalidTransactionID, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", receipt.ErrInvalidTransactionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", receipt.ErrInvalidTransactionID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", receipt.ErrInvalidTransactionID, err)
	}

	if len(body) < c.minBytes {
		return nil, fmt.Errorf("%w: body too small (%d bytes)", receipt.ErrInvalidTransactionID, len(body))
	}

	return body, nil
}
