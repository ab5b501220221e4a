package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/birr/internal/app"
	"github.com/MrJamesThe3rd/birr/internal/config"
	birrHttp "github.com/MrJamesThe3rd/birr/internal/http"
	accountHandler "github.com/MrJamesThe3rd/birr/internal/http/account"
	checkoutHandler "github.com/MrJamesThe3rd/birr/internal/http/checkout"
	depositHandler "github.com/MrJamesThe3rd/birr/internal/http/deposit"
	ledgerHandler "github.com/MrJamesThe3rd/birr/internal/http/ledger"
	txHandler "github.com/MrJamesThe3rd/birr/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handlers := birrHttp.Handlers{
		Deposits:     depositHandler.NewHandler(a.Verifier),
		Ledger:       ledgerHandler.NewHandler(a.Ledger),
		Accounts:     accountHandler.NewHandler(a.Accounts),
		Transactions: txHandler.NewHandler(a.Transactions),
	}

	if a.Checkout != nil {
		handlers.Checkout = checkoutHandler.NewHandler(a.Checkout)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, API routes are unauthenticated")
	}

	return serve(ctx, cfg, birrHttp.New(handlers, cfg.Auth.JWTSecret))
}

func serve(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + cfg.Receipt.FetchTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "app", cfg.App.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
