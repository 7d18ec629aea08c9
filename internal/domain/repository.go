package domain

import "context"

// AccountRepository defines the interface for account storage.
// Implementations must allow concurrent lookups while inserts happen.
type AccountRepository interface {
	// Create stores a new account; returns ErrAccountExists if the ID is taken
	Create(ctx context.Context, account *Account) error

	// GetByID returns the live account (not a copy) or ErrAccountNotFound
	GetByID(ctx context.Context, id string) (*Account, error)

	// List returns all accounts ordered by ID
	List(ctx context.Context) ([]*Account, error)
}

// CustomerRepository defines the interface for customer storage
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
}

// Ledger defines the append-only transaction log
type Ledger interface {
	// Append adds the record at the end of the log and stamps its Sequence
	Append(ctx context.Context, record *TransactionRecord) error

	// ListByAccount returns a snapshot of the records involving accountID, in insertion order
	ListByAccount(ctx context.Context, accountID string) ([]TransactionRecord, error)

	// Count returns how many records of the given kind exist.
	// An empty kind counts every record.
	Count(ctx context.Context, kind TransactionKind) (int, error)
}
