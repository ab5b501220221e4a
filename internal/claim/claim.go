// Package claim holds short-lived Redis locks on transaction ids so concurrent
// submissions of the same receipt collapse before any remote fetch. Claims are an
// optimisation only; the ledger's unique constraint still decides duplicates.
package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrHeld = errors.New("transaction id is being processed")

const keyPrefix = "deposit:v1:"

// releaseScript deletes the key only when it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
	token  func() string
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, token: uuid.NewString}
}

// Lease is a held claim.
type Lease struct {
	client redis.Cmdable
	key    string
	token  string
}

// Claim takes the claim on transactionID or returns ErrHeld.
func (r *Redis) Claim(ctx context.Context, transactionID string) (*Lease, error) {
	key := keyPrefix + transactionID
	token := r.token()

	ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claiming %s: %w", transactionID, err)
	}

	if !ok {
		return nil, ErrHeld
	}

	return &Lease{client: r.client, key: key, token: token}, nil
}

func (l *Lease) Release(ctx context.Context) error {
	if l == nil || l.client == nil {
		return nil
	}

	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("releasing %s: %w", l.key, err)
	}

	return nil
}

// Noop grants every claim. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Claim(context.Context, string) (*Lease, error) { return &Lease{}, nil }
