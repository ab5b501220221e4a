package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/birr/internal/http/account"
	"github.com/MrJamesThe3rd/birr/internal/http/checkout"
	"github.com/MrJamesThe3rd/birr/internal/http/deposit"
	"github.com/MrJamesThe3rd/birr/internal/http/ledger"
	birrMiddleware "github.com/MrJamesThe3rd/birr/internal/http/middleware"
	"github.com/MrJamesThe3rd/birr/internal/http/transaction"
)

type Handlers struct {
	Deposits     *deposit.Handler
	Ledger       *ledger.Handler
	Accounts     *account.Handler
	Transactions *transaction.Handler
	// Checkout is nil when no payment provider is configured.
	Checkout *checkout.Handler
}

// New builds the API router. Requests under /api/v1 need a bearer token when jwtSecret is set.
func New(h Handlers, jwtSecret string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(birrMiddleware.Metrics)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(birrMiddleware.Auth([]byte(jwtSecret)))
		}

		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/deposits", h.Deposits.Routes)

		h.Ledger.Routes(r)
		h.Accounts.Routes(r)
		h.Transactions.Routes(r)

		if h.Checkout != nil {
			r.Route("/checkout", h.Checkout.Routes)
		}
	})

	return router
}
