package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, kind AccountKind, balance int64) *Account {
	t.Helper()
	a, err := NewAccount("ACC1", "CUST1", kind, decimal.NewFromInt(balance), time.Now())
	require.NoError(t, err)
	return a
}

func TestNewAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		kind    AccountKind
		balance decimal.Decimal
		wantErr error
		errMsg  string
	}{
		{
			name:    "Savings account with opening balance should pass",
			id:      "ACC1",
			kind:    AccountKindSavings,
			balance: decimal.NewFromInt(5000),
		},
		{
			name:    "Current account with zero balance should pass",
			id:      "ACC2",
			kind:    AccountKindCurrent,
			balance: decimal.Zero,
		},
		{
			name:    "Empty ID should fail",
			id:      "",
			kind:    AccountKindCurrent,
			balance: decimal.Zero,
			errMsg:  "account ID cannot be empty",
		},
		{
			name:    "Unknown kind should fail",
			id:      "ACC3",
			kind:    AccountKind("FIXED_DEPOSIT"),
			balance: decimal.Zero,
			wantErr: ErrInvalidAccountKind,
		},
		{
			name:    "Negative opening balance should fail",
			id:      "ACC4",
			kind:    AccountKindCurrent,
			balance: decimal.NewFromInt(-1),
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAccount(tt.id, "CUST1", tt.kind, tt.balance, time.Now())
			if tt.wantErr == nil && tt.errMsg == "" {
				require.NoError(t, err)
				assert.True(t, tt.balance.Equal(a.Balance()))
				return
			}
			assert.Error(t, err)
			assert.Nil(t, a)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestAccount_Withdraw_Rules(t *testing.T) {
	tests := []struct {
		name        string
		kind        AccountKind
		balance     int64
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{
			name:        "Savings at minimum rejects any withdrawal",
			kind:        AccountKindSavings,
			balance:     1000,
			amount:      1,
			wantErr:     ErrInsufficientFunds,
			wantBalance: 1000,
		},
		{
			name:        "Savings may withdraw down to exactly the minimum",
			kind:        AccountKindSavings,
			balance:     1500,
			amount:      500,
			wantBalance: 1000,
		},
		{
			name:        "Savings cannot go one unit below minimum",
			kind:        AccountKindSavings,
			balance:     1500,
			amount:      501,
			wantErr:     ErrInsufficientFunds,
			wantBalance: 1500,
		},
		{
			name:        "Current may withdraw the whole balance",
			kind:        AccountKindCurrent,
			balance:     300,
			amount:      300,
			wantBalance: 0,
		},
		{
			name:        "Current cannot overdraw",
			kind:        AccountKindCurrent,
			balance:     300,
			amount:      301,
			wantErr:     ErrInsufficientFunds,
			wantBalance: 300,
		},
		{
			name:        "Zero amount is invalid",
			kind:        AccountKindCurrent,
			balance:     300,
			amount:      0,
			wantErr:     ErrInvalidAmount,
			wantBalance: 300,
		},
		{
			name:        "Negative amount is invalid",
			kind:        AccountKindSavings,
			balance:     5000,
			amount:      -10,
			wantErr:     ErrInvalidAmount,
			wantBalance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAccount(t, tt.kind, tt.balance)
			err := a.Withdraw(decimal.NewFromInt(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, decimal.NewFromInt(tt.wantBalance).Equal(a.Balance()),
				"balance = %s, want %d", a.Balance(), tt.wantBalance)
		})
	}
}

func TestAccount_Deposit(t *testing.T) {
	a := newTestAccount(t, AccountKindCurrent, 100)

	assert.NoError(t, a.Deposit(decimal.NewFromInt(50)))
	assert.True(t, decimal.NewFromInt(150).Equal(a.Balance()))

	assert.ErrorIs(t, a.Deposit(decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, a.Deposit(decimal.NewFromInt(-5)), ErrInvalidAmount)
	assert.True(t, decimal.NewFromInt(150).Equal(a.Balance()))
}

func TestAccount_ConcurrentDeposits(t *testing.T) {
	a := newTestAccount(t, AccountKindSavings, 1000)

	const workers = 200
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Deposit(decimal.NewFromInt(5)))
		}()
	}
	wg.Wait()

	assert.True(t, decimal.NewFromInt(1000+workers*5).Equal(a.Balance()))
}

func TestAccount_Interest(t *testing.T) {
	savings := newTestAccount(t, AccountKindSavings, 10000)
	current := newTestAccount(t, AccountKindCurrent, 10000)

	assert.True(t, decimal.NewFromInt(450).Equal(savings.Interest()), "got %s", savings.Interest())
	assert.True(t, decimal.Zero.Equal(current.Interest()))

	// Interest is a pure read
	assert.True(t, decimal.NewFromInt(10000).Equal(savings.Balance()))
}

func TestAccount_LockedPrimitives(t *testing.T) {
	a := newTestAccount(t, AccountKindSavings, 1200)

	a.Lock()
	assert.ErrorIs(t, a.CanWithdrawLocked(decimal.NewFromInt(201)), ErrInsufficientFunds)
	assert.NoError(t, a.CanWithdrawLocked(decimal.NewFromInt(200)))
	assert.ErrorIs(t, a.DebitLocked(decimal.NewFromInt(300)), ErrInsufficientFunds)
	assert.NoError(t, a.DebitLocked(decimal.NewFromInt(200)))
	a.CreditLocked(decimal.NewFromInt(50))
	a.Unlock()

	assert.True(t, decimal.NewFromInt(1050).Equal(a.Balance()))
}

func TestParseAccountKind(t *testing.T) {
	kind, err := ParseAccountKind(" savings ")
	assert.NoError(t, err)
	assert.Equal(t, AccountKindSavings, kind)

	kind, err = ParseAccountKind("CURRENT")
	assert.NoError(t, err)
	assert.Equal(t, AccountKindCurrent, kind)

	_, err = ParseAccountKind("loan")
	assert.ErrorIs(t, err, ErrInvalidAccountKind)
}

func TestRuleFor(t *testing.T) {
	rule, ok := RuleFor(AccountKindSavings)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(1000).Equal(rule.MinimumBalance))
	assert.True(t, decimal.RequireFromString("0.045").Equal(rule.InterestRate))

	rule, ok = RuleFor(AccountKindCurrent)
	assert.True(t, ok)
	assert.True(t, rule.MinimumBalance.IsZero())
	assert.True(t, rule.InterestRate.IsZero())

	_, ok = RuleFor(AccountKind("OTHER"))
	assert.False(t, ok)
}
