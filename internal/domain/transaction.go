package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of balance-affecting operation
type TransactionKind string

const (
	TransactionKindDeposit  TransactionKind = "DEPOSIT"
	TransactionKindWithdraw TransactionKind = "WITHDRAW"
	TransactionKindTransfer TransactionKind = "TRANSFER"
)

// TransactionRecord is one immutable ledger entry.
// A transfer produces exactly one record keyed to the source account;
// CounterpartyID names the destination so it can be found from either side.
type TransactionRecord struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Kind           TransactionKind `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	Timestamp      time.Time       `json:"timestamp"`
	Sequence       uint64          `json:"sequence"` // Assigned by the ledger on append
}

// Validate ensures the record adheres to domain rules
func (r *TransactionRecord) Validate() error {
	if r.ID == "" {
		return errors.New("transaction ID cannot be empty")
	}
	if err := r.ValidateEntry(); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		return errors.New("transaction timestamp must be set")
	}
	return nil
}

// ValidateEntry checks everything except the ID and timestamp, which are only
// known once the balance change has been applied.
func (r *TransactionRecord) ValidateEntry() error {
	if r.AccountID == "" {
		return errors.New("transaction account ID cannot be empty")
	}
	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	switch r.Kind {
	case TransactionKindDeposit, TransactionKindWithdraw:
		if r.CounterpartyID != "" {
			return errors.New("only transfers may carry a counterparty")
		}
	case TransactionKindTransfer:
		if r.CounterpartyID == "" {
			return errors.New("transfer must name its destination account")
		}
	default:
		return errors.New("transaction kind must be DEPOSIT, WITHDRAW, or TRANSFER")
	}
	return nil
}

// Involves reports whether the record touches the account, as source or as transfer destination
func (r *TransactionRecord) Involves(accountID string) bool {
	if accountID == "" {
		return false
	}
	return r.AccountID == accountID || r.CounterpartyID == accountID
}
