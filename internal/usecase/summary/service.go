package summary

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
)

// KindTotals aggregates the accounts of one kind
type KindTotals struct {
	Accounts          int             `json:"accounts"`
	Balance           decimal.Decimal `json:"balance"`
	ProjectedInterest decimal.Decimal `json:"projected_interest"`
}

// Result represents the bank-wide summary
type Result struct {
	Accounts          int                               `json:"accounts"`
	TotalBalance      decimal.Decimal                   `json:"total_balance"`
	ProjectedInterest decimal.Decimal                   `json:"projected_interest"`
	ByKind            map[domain.AccountKind]KindTotals `json:"by_kind"`
	Transactions      map[domain.TransactionKind]int    `json:"transactions"`
	TotalTransactions int                               `json:"total_transactions"`
}

// Service handles summary operations
type Service struct {
	AccountRepo domain.AccountRepository
	Ledger      domain.Ledger
}

// NewService creates a new summary Service instance
func NewService(accountRepo domain.AccountRepository, ledger domain.Ledger) *Service {
	return &Service{
		AccountRepo: accountRepo,
		Ledger:      ledger,
	}
}

// Summarize totals balances and projected interest per account kind and counts ledger records.
// Each balance is read under its own account lock, so the total is not a single
// atomic snapshot while transfers are in flight.
func (s *Service) Summarize(ctx context.Context) (*Result, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	res := &Result{
		TotalBalance:      decimal.Zero,
		ProjectedInterest: decimal.Zero,
		ByKind:            make(map[domain.AccountKind]KindTotals),
		Transactions:      make(map[domain.TransactionKind]int),
	}

	for _, account := range accounts {
		balance := account.Balance()
		rule, _ := domain.RuleFor(account.Kind)
		interest := balance.Mul(rule.InterestRate)

		totals, ok := res.ByKind[account.Kind]
		if !ok {
			totals = KindTotals{Balance: decimal.Zero, ProjectedInterest: decimal.Zero}
		}
		totals.Accounts++
		totals.Balance = totals.Balance.Add(balance)
		totals.ProjectedInterest = totals.ProjectedInterest.Add(interest)
		res.ByKind[account.Kind] = totals

		res.Accounts++
		res.TotalBalance = res.TotalBalance.Add(balance)
		res.ProjectedInterest = res.ProjectedInterest.Add(interest)
	}

	for _, kind := range []domain.TransactionKind{
		domain.TransactionKindDeposit,
		domain.TransactionKindWithdraw,
		domain.TransactionKindTransfer,
	} {
		n, err := s.Ledger.Count(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s transactions: %w", kind, err)
		}
		res.Transactions[kind] = n
	}

	res.TotalTransactions, err = s.Ledger.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return res, nil
}
