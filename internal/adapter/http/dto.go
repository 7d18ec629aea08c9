package http

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
)

type registerCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
}

type createAccountRequest struct {
	CustomerID     string          `json:"customer_id"`
	Kind           string          `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	domain.AccountSnapshot
	Interest decimal.Decimal `json:"interest"`
}

type errorResponse struct {
	Error string `json:"error"`
}
