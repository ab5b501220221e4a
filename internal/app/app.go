// Package app wires the services shared by the API server and the operator console.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/MrJamesThe3rd/birr/internal/account"
	accountStore "github.com/MrJamesThe3rd/birr/internal/account/store"
	"github.com/MrJamesThe3rd/birr/internal/checkout"
	"github.com/MrJamesThe3rd/birr/internal/claim"
	"github.com/MrJamesThe3rd/birr/internal/config"
	"github.com/MrJamesThe3rd/birr/internal/database"
	"github.com/MrJamesThe3rd/birr/internal/events"
	"github.com/MrJamesThe3rd/birr/internal/extract"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/birr/internal/ledger/store"
	"github.com/MrJamesThe3rd/birr/internal/receipt"
	"github.com/MrJamesThe3rd/birr/internal/receipt/fetch"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
	txStore "github.com/MrJamesThe3rd/birr/internal/transaction/store"
	"github.com/MrJamesThe3rd/birr/internal/verify"
)

type App struct {
	Accounts     *account.Service
	Transactions *transaction.Service
	Ledger       *ledger.Service
	Verifier     *verify.Service
	// Checkout is nil when no payment provider secret is configured.
	Checkout *checkout.Client

	db        *sql.DB
	redis     *redis.Client
	publisher publisher
}

type publisher interface {
	ledger.Publisher
	Close() error
}

// New connects to the database, applies the schema and builds every service.
// Redis and Kafka are optional: without them deposits are not claimed and events are dropped.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	fetcher, err := fetch.New(fetch.Config{
		BaseURL:       cfg.Receipt.BaseURL,
		AccountSuffix: cfg.Receipt.AccountSuffix,
		MinBytes:      cfg.Receipt.MinBytes,
		InsecureTLS:   cfg.Receipt.InsecureTLS,
		Timeout:       cfg.Receipt.FetchTimeout,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{db: db}
	a.publisher = newPublisher(cfg)

	var claims verify.Claimer = claim.Noop{}
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := a.redis.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, deposit claims disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			claims = claim.NewRedis(a.redis, cfg.Redis.ClaimTTL)
		}
	}

	limits := ledger.Limits{
		WithdrawMin: cfg.Limits.WithdrawMin,
		WithdrawMax: cfg.Limits.WithdrawMax,
		TransferMin: cfg.Limits.TransferMin,
		TransferMax: cfg.Limits.TransferMax,
	}

	a.Accounts = account.NewService(accountStore.New(db))
	a.Transactions = transaction.NewService(txStore.New(db))
	a.Ledger = ledger.NewService(ledgerStore.New(db), a.publisher, limits)
	a.Verifier = verify.NewService(verify.Params{
		Fetcher:   fetcher,
		Extractor: extract.NewAuto(),
		Parser:    receipt.NewParser(loc),
		Validator: receipt.NewValidator(receipt.Expected{
			ReceiverName:   cfg.Receipt.ReceiverName,
			ReceiverSuffix: cfg.Receipt.ReceiverSuffix,
		}, loc, nil),
		Ledger: a.Ledger,
		Claims: claims,
	})

	if cfg.Chapa.Secret != "" {
		a.Checkout = checkout.New(checkout.Config{
			Secret:      cfg.Chapa.Secret,
			BaseURL:     cfg.Chapa.BaseURL,
			CallbackURL: cfg.Chapa.CallbackURL,
			ReturnURL:   cfg.Chapa.ReturnURL,
		})
	}

	return a, nil
}

func newPublisher(cfg *config.Config) publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.Noop{}
	}

	slog.Info("publishing ledger events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)

	return events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

// Close flushes pending events and releases connections.
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Error("failed to close event publisher", "error", err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}

	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
