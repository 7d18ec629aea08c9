package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/idgen"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"go.uber.org/zap"
)

// RegisterCustomerInput represents the raw input for registering a customer
type RegisterCustomerInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string // YYYY-MM-DD
}

// CreateAccountInput represents the input for opening an account
type CreateAccountInput struct {
	CustomerID     string
	Kind           domain.AccountKind
	InitialBalance decimal.Decimal
}

// Service handles customer registration and account opening.
// It never mutates balances after creation.
type Service struct {
	AccountRepo  domain.AccountRepository
	CustomerRepo domain.CustomerRepository
	IDs          idgen.Generator

	log *zap.Logger
	now func() time.Time
}

// NewService creates a new registry Service instance
func NewService(
	accountRepo domain.AccountRepository,
	customerRepo domain.CustomerRepository,
	ids idgen.Generator,
	log *zap.Logger,
) *Service {
	return &Service{
		AccountRepo:  accountRepo,
		CustomerRepo: customerRepo,
		IDs:          ids,
		log:          logger.OrNop(log),
		now:          time.Now,
	}
}

// RegisterCustomer validates the input and stores a new customer
func (s *Service) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*domain.Customer, error) {
	dob, err := domain.ParseDateOfBirth(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:          s.IDs.CustomerID(),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		DateOfBirth: dob,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to store customer: %w", err)
	}

	s.log.Info("customer registered", zap.String("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.CustomerRepo.GetByID(ctx, id)
}

// CreateAccount opens an account for an existing customer.
// Logic:
//  1. Validate kind and opening balance
//  2. Ensure the customer exists
//  3. Allocate an ID and store the account
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if _, ok := domain.RuleFor(input.Kind); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountKind, input.Kind)
	}
	if input.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", domain.ErrInvalidAmount)
	}

	if _, err := s.CustomerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(s.IDs.AccountID(), input.CustomerID, input.Kind, input.InitialBalance, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to store account: %w", err)
	}

	s.log.Info("account opened",
		zap.String("account_id", account.ID),
		zap.String("customer_id", account.CustomerID),
		zap.String("kind", string(account.Kind)),
		zap.String("initial_balance", input.InitialBalance.String()),
	)
	return account, nil
}

// GetAccount returns a snapshot of an account
func (s *Service) GetAccount(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}
	return account.Snapshot(), nil
}

// ListAccounts returns snapshots of every account ordered by ID
func (s *Service) ListAccounts(ctx context.Context) ([]domain.AccountSnapshot, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	snapshots := make([]domain.AccountSnapshot, 0, len(accounts))
	for _, a := range accounts {
		snapshots = append(snapshots, a.Snapshot())
	}
	return snapshots, nil
}
