package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/simaogato/bankledger-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository.
// The map only grows; the RWMutex lets lookups proceed in parallel while the
// engine holds account locks, and serializes the occasional insert.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates a new in-memory account repository
func NewAccountRepository() domain.AccountRepository {
	return &accountRepository{accounts: make(map[string]*domain.Account)}
}

// Create stores a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID)
	}
	r.accounts[account.ID] = account
	return nil
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	account, ok := r.accounts[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}
	return account, nil
}

// List retrieves all accounts ordered by ID
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	accounts := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	r.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}
