package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind represents the kind of account in the system
type AccountKind string

const (
	AccountKindSavings AccountKind = "SAVINGS"
	AccountKindCurrent AccountKind = "CURRENT"
)

// Fixed rule constants. Tests depend on these exact values.
var (
	SavingsMinimumBalance = decimal.NewFromInt(1000)
	SavingsInterestRate   = decimal.RequireFromString("0.045")
)

// KindRule holds the withdrawal floor and interest rate of an account kind
type KindRule struct {
	MinimumBalance decimal.Decimal
	InterestRate   decimal.Decimal
}

var kindRules = map[AccountKind]KindRule{
	AccountKindSavings: {MinimumBalance: SavingsMinimumBalance, InterestRate: SavingsInterestRate},
	AccountKindCurrent: {MinimumBalance: decimal.Zero, InterestRate: decimal.Zero},
}

// RuleFor returns the rule of the given kind
func RuleFor(kind AccountKind) (KindRule, bool) {
	rule, ok := kindRules[kind]
	return rule, ok
}

// ParseAccountKind converts user input ("savings", "CURRENT", ...) into an AccountKind
func ParseAccountKind(s string) (AccountKind, error) {
	kind := AccountKind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := kindRules[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountKind, s)
	}
	return kind, nil
}

// Account represents a balance-holding account.
//
// The balance is unexported and guarded by mu. Deposit, Withdraw, Balance and
// Interest take the lock themselves; the *Locked methods expect the caller to
// already hold it (see Lock/Unlock), which is how the transfer engine holds two
// accounts at once.
type Account struct {
	ID         string
	CustomerID string
	Kind       AccountKind
	CreatedAt  time.Time

	mu      sync.Mutex
	balance decimal.Decimal
}

// AccountSnapshot is a point-in-time copy of an account, safe to hand out to callers
type AccountSnapshot struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Kind       AccountKind     `json:"kind"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewAccount builds an account with an opening balance.
// The opening balance may be below the savings floor; the floor only gates withdrawals.
func NewAccount(id, customerID string, kind AccountKind, initialBalance decimal.Decimal, createdAt time.Time) (*Account, error) {
	a := &Account{
		ID:         id,
		CustomerID: customerID,
		Kind:       kind,
		CreatedAt:  createdAt,
		balance:    initialBalance,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Account) validate() error {
	if a.ID == "" {
		return errors.New("account ID cannot be empty")
	}
	if _, ok := kindRules[a.Kind]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAccountKind, a.Kind)
	}
	if a.balance.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// Deposit credits the account. Concurrent calls are serialized on the account lock.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.CreditLocked(amount)
	return nil
}

// Withdraw debits the account if the kind's withdrawal rule allows it
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.DebitLocked(amount)
}

// Balance returns a consistent snapshot of the balance
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Interest returns balance * rate for the account kind. Current accounts yield zero.
func (a *Account) Interest() decimal.Decimal {
	rule := kindRules[a.Kind]
	return a.Balance().Mul(rule.InterestRate)
}

// Snapshot returns a copy of the account state
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Kind:       a.Kind,
		Balance:    a.Balance(),
		CreatedAt:  a.CreatedAt,
	}
}

// Lock acquires the account's exclusive lock
func (a *Account) Lock() { a.mu.Lock() }

// Unlock releases the account's exclusive lock
func (a *Account) Unlock() { a.mu.Unlock() }

// CanWithdrawLocked reports whether amount can be withdrawn. Caller must hold the lock.
//
//   - CURRENT: fails if balance < amount
//   - SAVINGS: fails if balance - amount < minimum balance
func (a *Account) CanWithdrawLocked(amount decimal.Decimal) error {
	rule := kindRules[a.Kind]
	if a.balance.Sub(amount).LessThan(rule.MinimumBalance) {
		return fmt.Errorf("%w: account %s balance %s, requested %s, minimum %s",
			ErrInsufficientFunds, a.ID, a.balance.String(), amount.String(), rule.MinimumBalance.String())
	}
	return nil
}

// DebitLocked withdraws amount after checking the withdrawal rule. Caller must hold the lock.
func (a *Account) DebitLocked(amount decimal.Decimal) error {
	if err := a.CanWithdrawLocked(amount); err != nil {
		return err
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// CreditLocked adds amount to the balance. Caller must hold the lock.
func (a *Account) CreditLocked(amount decimal.Decimal) {
	a.balance = a.balance.Add(amount)
}

// ValidateAmount rejects non-positive amounts
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}
