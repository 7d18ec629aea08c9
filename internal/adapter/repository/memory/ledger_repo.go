package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simaogato/bankledger-backend/internal/domain"
)

// ledgerRepository implements domain.Ledger as an append-only slice.
// It has its own lock and never touches account locks.
type ledgerRepository struct {
	mu      sync.RWMutex
	records []domain.TransactionRecord
}

// NewLedgerRepository creates a new in-memory ledger
func NewLedgerRepository() domain.Ledger {
	return &ledgerRepository{}
}

// Append validates the record, stamps its sequence and adds it to the end of the log.
// The caller's record is updated with the assigned sequence.
func (r *ledgerRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	r.mu.Lock()
	record.Sequence = uint64(len(r.records))
	r.records = append(r.records, *record)
	r.mu.Unlock()

	return nil
}

// ListByAccount returns a snapshot of the records involving accountID, in insertion order
func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TransactionRecord, 0)
	for i := range r.records {
		if r.records[i].Involves(accountID) {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

// Count returns the number of records of a kind, or of all records when kind is empty
func (r *ledgerRepository) Count(ctx context.Context, kind domain.TransactionKind) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if kind == "" {
		return len(r.records), nil
	}

	n := 0
	for i := range r.records {
		if r.records[i].Kind == kind {
			n++
		}
	}
	return n, nil
}
