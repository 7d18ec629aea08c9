package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simaogato/bankledger-backend/internal/domain"
)

// customerRepository implements domain.CustomerRepository
type customerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

// NewCustomerRepository creates a new in-memory customer repository
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepository{customers: make(map[string]domain.Customer)}
}

// Create stores a copy of the customer
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrCustomerExists, customer.ID)
	}
	r.customers[customer.ID] = *customer
	return nil
}

// GetByID returns a copy of the stored customer
func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	customer, ok := r.customers[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, id)
	}
	return &customer, nil
}
