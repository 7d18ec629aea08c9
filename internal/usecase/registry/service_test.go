package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func newTestService() (*Service, *MockAccountRepository, *MockCustomerRepository) {
	accounts := new(MockAccountRepository)
	customers := new(MockCustomerRepository)
	svc := NewService(accounts, customers, idgen.NewSequenceGenerator(), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, accounts, customers
}

func TestRegisterCustomer_Success(t *testing.T) {
	ctx := context.Background()
	svc, _, customers := newTestService()

	customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.ID == "CUST1000" && c.Name == "Asha Rao" && c.Email == "asha@example.com"
	})).Return(nil)

	customer, err := svc.RegisterCustomer(ctx, RegisterCustomerInput{
		Name:        " Asha Rao ",
		Email:       "asha@example.com",
		Phone:       "9876543210",
		DateOfBirth: "1990-01-15",
	})

	require.NoError(t, err)
	assert.Equal(t, "CUST1000", customer.ID)
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), customer.DateOfBirth)
	customers.AssertExpectations(t)
}

func TestRegisterCustomer_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		input  RegisterCustomerInput
		errMsg string
	}{
		{
			name:   "bad date of birth",
			input:  RegisterCustomerInput{Name: "A", Email: "a@b.com", Phone: "9876543210", DateOfBirth: "15/01/1990"},
			errMsg: "invalid date of birth",
		},
		{
			name:   "bad email",
			input:  RegisterCustomerInput{Name: "A", Email: "not-an-email", Phone: "9876543210", DateOfBirth: "1990-01-15"},
			errMsg: "invalid email",
		},
		{
			name:   "bad phone",
			input:  RegisterCustomerInput{Name: "A", Email: "a@b.com", Phone: "12345", DateOfBirth: "1990-01-15"},
			errMsg: "invalid phone",
		},
		{
			name:   "blank name",
			input:  RegisterCustomerInput{Name: "  ", Email: "a@b.com", Phone: "9876543210", DateOfBirth: "1990-01-15"},
			errMsg: "name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, customers := newTestService()

			_, err := svc.RegisterCustomer(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
			assert.Contains(t, err.Error(), tt.errMsg)
			customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateAccount_Success(t *testing.T) {
	ctx := context.Background()
	svc, accounts, customers := newTestService()

	customers.On("GetByID", ctx, "CUST1000").Return(&domain.Customer{ID: "CUST1000"}, nil)
	accounts.On("Create", ctx, mock.AnythingOfType("*domain.Account")).Return(nil)

	account, err := svc.CreateAccount(ctx, CreateAccountInput{
		CustomerID:     "CUST1000",
		Kind:           domain.AccountKindSavings,
		InitialBalance: decimal.NewFromInt(5000),
	})

	require.NoError(t, err)
	assert.Equal(t, "ACC2000", account.ID)
	assert.Equal(t, domain.AccountKindSavings, account.Kind)
	assert.True(t, account.Balance().Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, svc.now(), account.CreatedAt)
	customers.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestCreateAccount_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateAccountInput
		customer  error
		wantErrIs error
	}{
		{
			name:      "invalid kind",
			input:     CreateAccountInput{CustomerID: "CUST1000", Kind: "CHECKING", InitialBalance: decimal.Zero},
			wantErrIs: domain.ErrInvalidAccountKind,
		},
		{
			name:      "negative opening balance",
			input:     CreateAccountInput{CustomerID: "CUST1000", Kind: domain.AccountKindCurrent, InitialBalance: decimal.NewFromInt(-1)},
			wantErrIs: domain.ErrInvalidAmount,
		},
		{
			name:      "unknown customer",
			input:     CreateAccountInput{CustomerID: "CUST9999", Kind: domain.AccountKindCurrent, InitialBalance: decimal.Zero},
			customer:  domain.ErrCustomerNotFound,
			wantErrIs: domain.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, accounts, customers := newTestService()
			if tt.customer != nil {
				customers.On("GetByID", ctx, tt.input.CustomerID).Return(nil, tt.customer)
			}

			_, err := svc.CreateAccount(ctx, tt.input)

			assert.ErrorIs(t, err, tt.wantErrIs)
			accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateAccount_StoreFailure(t *testing.T) {
	ctx := context.Background()
	svc, accounts, customers := newTestService()

	customers.On("GetByID", ctx, "CUST1000").Return(&domain.Customer{ID: "CUST1000"}, nil)
	accounts.On("Create", ctx, mock.Anything).Return(domain.ErrAccountExists)

	_, err := svc.CreateAccount(ctx, CreateAccountInput{CustomerID: "CUST1000", Kind: domain.AccountKindCurrent})

	assert.ErrorIs(t, err, domain.ErrAccountExists)
	assert.Contains(t, err.Error(), "failed to store account")
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newTestService()

	acc, err := domain.NewAccount("ACC2000", "CUST1000", domain.AccountKindCurrent, decimal.NewFromInt(10000), svc.now())
	require.NoError(t, err)
	accounts.On("GetByID", ctx, "ACC2000").Return(acc, nil)
	accounts.On("GetByID", ctx, "ACC404").Return(nil, domain.ErrAccountNotFound)

	snap, err := svc.GetAccount(ctx, "ACC2000")
	require.NoError(t, err)
	assert.Equal(t, "ACC2000", snap.ID)
	assert.True(t, snap.Balance.Equal(decimal.NewFromInt(10000)))

	_, err = svc.GetAccount(ctx, "ACC404")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newTestService()

	a1, _ := domain.NewAccount("ACC2000", "CUST1000", domain.AccountKindSavings, decimal.NewFromInt(5000), svc.now())
	a2, _ := domain.NewAccount("ACC2001", "CUST1000", domain.AccountKindCurrent, decimal.NewFromInt(10000), svc.now())
	accounts.On("List", ctx).Return([]*domain.Account{a1, a2}, nil).Once()

	snaps, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "ACC2000", snaps[0].ID)
	assert.Equal(t, "ACC2001", snaps[1].ID)

	accounts.On("List", ctx).Return(nil, errors.New("boom")).Once()
	_, err = svc.ListAccounts(ctx)
	assert.Error(t, err)
}
