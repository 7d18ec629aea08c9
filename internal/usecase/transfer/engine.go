// Package transfer is the only place balances change after an account is opened.
//
// Locking protocol: every operation touching one account holds that account's
// lock; a transfer holds both, acquired in ascending Account.ID order (see
// lockOrder). Ledger appends happen after the account locks are released, so
// the ledger lock is never nested inside an account lock.
package transfer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/idgen"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"go.uber.org/zap"
)

// Engine performs deposits, withdrawals and transfers against the account store
// and records each success in the ledger.
type Engine struct {
	accounts domain.AccountRepository
	ledger   domain.Ledger
	ids      idgen.Generator
	log      *zap.Logger
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now as the source of record timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new Engine instance
func NewEngine(
	accounts domain.AccountRepository,
	ledger domain.Ledger,
	ids idgen.Generator,
	log *zap.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		accounts: accounts,
		ledger:   ledger,
		ids:      ids,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deposit credits accountID and records a DEPOSIT
func (e *Engine) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &domain.TransactionRecord{
		AccountID: accountID,
		Kind:      domain.TransactionKindDeposit,
		Amount:    amount,
	}
	if err := rec.ValidateEntry(); err != nil {
		return nil, err
	}

	account.Lock()
	account.CreditLocked(amount)
	rec.Timestamp = e.now()
	account.Unlock()

	return e.record(ctx, rec)
}

// Withdraw debits accountID under its kind's rule and records a WITHDRAW.
// ErrInsufficientFunds leaves both the balance and the ledger untouched.
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &domain.TransactionRecord{
		AccountID: accountID,
		Kind:      domain.TransactionKindWithdraw,
		Amount:    amount,
	}
	if err := rec.ValidateEntry(); err != nil {
		return nil, err
	}

	account.Lock()
	err = account.DebitLocked(amount)
	rec.Timestamp = e.now()
	account.Unlock()

	if err != nil {
		e.log.Debug("withdrawal rejected",
			zap.String("account_id", accountID),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return e.record(ctx, rec)
}

// Transfer moves amount from fromID to toID atomically.
// Logic:
//  1. Resolve both accounts
//  2. Lock them in global order (once when fromID == toID)
//  3. Re-check the source's withdrawal rule, then debit and credit
//  4. Release the locks and append one TRANSFER record keyed to the source
func (e *Engine) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	from, err := e.accounts.GetByID(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("transfer source: %w", err)
	}
	to, err := e.accounts.GetByID(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("transfer destination: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &domain.TransactionRecord{
		AccountID:      fromID,
		CounterpartyID: toID,
		Kind:           domain.TransactionKindTransfer,
		Amount:         amount,
	}
	if err := rec.ValidateEntry(); err != nil {
		return nil, err
	}

	first, second := lockOrder(from, to)
	first.Lock()
	if second != first {
		second.Lock()
	}

	err = from.DebitLocked(amount)
	if err == nil {
		to.CreditLocked(amount)
	}
	rec.Timestamp = e.now()

	if second != first {
		second.Unlock()
	}
	first.Unlock()

	if err != nil {
		e.log.Debug("transfer rejected",
			zap.String("from", fromID),
			zap.String("to", toID),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return e.record(ctx, rec)
}

// GetTransactions returns the records involving accountID, most recent first.
// Ties on timestamp fall back to reverse insertion order.
func (e *Engine) GetTransactions(ctx context.Context, accountID string) ([]domain.TransactionRecord, error) {
	if _, err := e.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	records, err := e.ledger.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	slices.SortFunc(records, func(a, b domain.TransactionRecord) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.Sequence > b.Sequence:
			return -1
		case a.Sequence < b.Sequence:
			return 1
		default:
			return 0
		}
	})
	return records, nil
}

// GetBalance returns a consistent snapshot of the balance
func (e *Engine) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(), nil
}

// Interest returns the projected interest on the current balance
func (e *Engine) Interest(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Interest(), nil
}

// record appends a completed operation. The mutation has already happened, so
// cancellation of ctx must not drop its record.
//
// rec passed ValidateEntry before the mutation and gets its ID and timestamp
// here, so Append only fails if the ledger itself fails. The balance change is
// not rolled back in that case; the error is logged as a lost record.
func (e *Engine) record(ctx context.Context, rec *domain.TransactionRecord) (*domain.TransactionRecord, error) {
	rec.ID = e.ids.TransactionID()

	if err := e.ledger.Append(context.WithoutCancel(ctx), rec); err != nil {
		e.log.Error("balance changed without a ledger record",
			zap.String("transaction_id", rec.ID),
			zap.String("account_id", rec.AccountID),
			zap.String("kind", string(rec.Kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	e.log.Debug("transaction recorded",
		zap.String("transaction_id", rec.ID),
		zap.String("account_id", rec.AccountID),
		zap.String("kind", string(rec.Kind)),
		zap.String("amount", rec.Amount.String()),
	)
	return rec, nil
}
