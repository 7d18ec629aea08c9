package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"github.com/simaogato/bankledger-backend/internal/usecase/registry"
	"github.com/simaogato/bankledger-backend/internal/usecase/summary"
)

type registryService interface {
	RegisterCustomer(ctx context.Context, input registry.RegisterCustomerInput) (*domain.Customer, error)
	CreateAccount(ctx context.Context, input registry.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.AccountSnapshot, error)
	ListAccounts(ctx context.Context) ([]domain.AccountSnapshot, error)
}

type ledgerEngine interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	GetTransactions(ctx context.Context, accountID string) ([]domain.TransactionRecord, error)
	Interest(ctx context.Context, accountID string) (decimal.Decimal, error)
}

type summaryService interface {
	Summarize(ctx context.Context) (*summary.Result, error)
}

// Handler serves the JSON API
type Handler struct {
	registry registryService
	engine   ledgerEngine
	summary  summaryService
	log      *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(registry registryService, engine ledgerEngine, summary summaryService, log *zap.Logger) *Handler {
	return &Handler{
		registry: registry,
		engine:   engine,
		summary:  summary,
		log:      logger.OrNop(log),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}

	customer, err := h.registry.RegisterCustomer(r.Context(), registry.RegisterCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	kind, err := domain.ParseAccountKind(req.Kind)
	if err != nil {
		h.writeError(w, err)
		return
	}

	account, err := h.registry.CreateAccount(r.Context(), registry.CreateAccountInput{
		CustomerID:     req.CustomerID,
		Kind:           kind,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account.Snapshot())
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.registry.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.registry.GetAccount(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	interest, err := h.engine.Interest(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accountResponse{AccountSnapshot: snap, Interest: interest})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec, err := h.engine.Deposit(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec, err := h.engine.Withdraw(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	records, err := h.engine.GetTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !h.decode(w, r, &req) {
		return
	}

	rec, err := h.engine.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	res, err := h.summary.Summarize(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Warn("error while decoding request body", zap.String("url", r.RequestURI), zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("error while encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
		h.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrCustomerExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountKind),
		errors.Is(err, domain.ErrInvalidCustomer):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
