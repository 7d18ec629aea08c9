package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/simaogato/bankledger-backend/internal/auth"
	"github.com/simaogato/bankledger-backend/internal/logger"
)

// NewRouter mounts the API routes. /health is served without a token.
func NewRouter(h *Handler, apiToken string, log *zap.Logger) *chi.Mux {
	log = logger.OrNop(log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withLogging(log))

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(withAuth(apiToken, log))

		r.Post("/customers", h.RegisterCustomer)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.CreateAccount)
			r.Get("/", h.ListAccounts)
			r.Get("/{id}", h.GetAccount)
			r.Post("/{id}/deposit", h.Deposit)
			r.Post("/{id}/withdraw", h.Withdraw)
			r.Get("/{id}/transactions", h.Transactions)
		})

		r.Post("/transfers", h.Transfer)
		r.Get("/summary", h.Summary)
	})

	return r
}

func withAuth(apiToken string, log *zap.Logger) func(http.Handler) http.Handler {
	verifier := auth.NewVerifier(apiToken, true)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := verifier.Verify(r.Header.Get("Authorization")); err != nil {
				log.Warn("unauthorized request", zap.String("url", r.RequestURI), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
