package seeder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/usecase/registry"
)

// Registry is the part of the registry service the seeder needs
type Registry interface {
	RegisterCustomer(ctx context.Context, input registry.RegisterCustomerInput) (*domain.Customer, error)
	CreateAccount(ctx context.Context, input registry.CreateAccountInput) (*domain.Account, error)
}

// DemoHolder defines a demo customer together with the account opened for them
type DemoHolder struct {
	Customer       registry.RegisterCustomerInput
	Kind           domain.AccountKind
	InitialBalance decimal.Decimal
}

// DemoHolders are the customers and accounts the demo flow runs against.
// The first two are the savings/current pair of the walkthrough scenario.
var DemoHolders = []DemoHolder{
	{
		Customer:       registry.RegisterCustomerInput{Name: "Rahul Sharma", Email: "rahul@example.com", Phone: "9876543210", DateOfBirth: "1995-03-15"},
		Kind:           domain.AccountKindSavings,
		InitialBalance: decimal.NewFromInt(5000),
	},
	{
		Customer:       registry.RegisterCustomerInput{Name: "Priya Patel", Email: "priya@example.com", Phone: "9123456780", DateOfBirth: "1992-11-25"},
		Kind:           domain.AccountKindCurrent,
		InitialBalance: decimal.NewFromInt(10000),
	},
	{
		Customer:       registry.RegisterCustomerInput{Name: "Amit Kumar", Email: "amit@example.com", Phone: "9988776655", DateOfBirth: "1990-07-10"},
		Kind:           domain.AccountKindSavings,
		InitialBalance: decimal.NewFromInt(15000),
	},
}

// Seeded holds what Seed created, in DemoHolders order
type Seeded struct {
	Customers []*domain.Customer
	Accounts  []*domain.Account
}

// Seeder creates the demo customers and accounts
type Seeder struct {
	registry Registry
}

// NewSeeder creates a new Seeder instance
func NewSeeder(registry Registry) *Seeder {
	return &Seeder{registry: registry}
}

// Seed registers every demo holder and opens their account
func (s *Seeder) Seed(ctx context.Context) (*Seeded, error) {
	out := &Seeded{}

	for _, holder := range DemoHolders {
		customer, err := s.registry.RegisterCustomer(ctx, holder.Customer)
		if err != nil {
			return nil, fmt.Errorf("failed to seed customer %s: %w", holder.Customer.Name, err)
		}

		account, err := s.registry.CreateAccount(ctx, registry.CreateAccountInput{
			CustomerID:     customer.ID,
			Kind:           holder.Kind,
			InitialBalance: holder.InitialBalance,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed account for %s: %w", customer.ID, err)
		}

		out.Customers = append(out.Customers, customer)
		out.Accounts = append(out.Accounts, account)
	}

	return out, nil
}
