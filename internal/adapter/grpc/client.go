package grpc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bankledger-backend/internal/domain"
)

// Client calls the ledger service over an established connection
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

// NewClient creates a client that authenticates every call with token
func NewClient(conn grpc.ClientConnInterface, token string) *Client {
	return &Client{conn: conn, token: token}
}

// BalanceResult is the decoded GetBalance response
type BalanceResult struct {
	AccountID string
	Balance   decimal.Decimal
	Interest  decimal.Decimal
}

// SimulationResult is the decoded SimulateTransfers response
type SimulationResult struct {
	Attempts       int
	Succeeded      int
	Failed         int
	TimedOut       int
	Completed      bool
	BalancesBefore map[string]decimal.Decimal
	BalancesAfter  map[string]decimal.Decimal
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, AuthorizationHeader, c.token)

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterCustomer(ctx context.Context, name, email, phone, dateOfBirth string) (*domain.Customer, error) {
	out, err := c.invoke(ctx, MethodRegisterCustomer, map[string]any{
		"name":          name,
		"email":         email,
		"phone":         phone,
		"date_of_birth": dateOfBirth,
	})
	if err != nil {
		return nil, err
	}
	return customerFromStruct(out)
}

func (c *Client) CreateAccount(ctx context.Context, customerID string, kind domain.AccountKind, initialBalance decimal.Decimal) (domain.AccountSnapshot, error) {
	out, err := c.invoke(ctx, MethodCreateAccount, map[string]any{
		"customer_id":     customerID,
		"kind":            string(kind),
		"initial_balance": initialBalance.String(),
	})
	if err != nil {
		return domain.AccountSnapshot{}, err
	}
	return accountFromStruct(out)
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (domain.AccountSnapshot, error) {
	out, err := c.invoke(ctx, MethodGetAccount, map[string]any{"account_id": accountID})
	if err != nil {
		return domain.AccountSnapshot{}, err
	}
	return accountFromStruct(out)
}

func (c *Client) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	out, err := c.invoke(ctx, MethodDeposit, map[string]any{
		"account_id": accountID,
		"amount":     amount.String(),
	})
	if err != nil {
		return nil, err
	}
	return recordFromStruct(out)
}

func (c *Client) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	out, err := c.invoke(ctx, MethodWithdraw, map[string]any{
		"account_id": accountID,
		"amount":     amount.String(),
	})
	if err != nil {
		return nil, err
	}
	return recordFromStruct(out)
}

func (c *Client) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	out, err := c.invoke(ctx, MethodTransfer, map[string]any{
		"from_account_id": fromID,
		"to_account_id":   toID,
		"amount":          amount.String(),
	})
	if err != nil {
		return nil, err
	}
	return recordFromStruct(out)
}

func (c *Client) GetBalance(ctx context.Context, accountID string) (*BalanceResult, error) {
	out, err := c.invoke(ctx, MethodGetBalance, map[string]any{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(optionalStringField(out, "balance"))
	if err != nil {
		return nil, fmt.Errorf("invalid balance in response: %w", err)
	}
	interest, err := decimal.NewFromString(optionalStringField(out, "interest"))
	if err != nil {
		return nil, fmt.Errorf("invalid interest in response: %w", err)
	}
	return &BalanceResult{AccountID: accountID, Balance: balance, Interest: interest}, nil
}

func (c *Client) GetTransactions(ctx context.Context, accountID string) ([]domain.TransactionRecord, error) {
	out, err := c.invoke(ctx, MethodGetTransactions, map[string]any{"account_id": accountID})
	if err != nil {
		return nil, err
	}

	values := out.GetFields()["transactions"].GetListValue().GetValues()
	records := make([]domain.TransactionRecord, 0, len(values))
	for _, v := range values {
		rec, err := recordFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// GetSummary returns the raw summary document
func (c *Client) GetSummary(ctx context.Context) (map[string]any, error) {
	out, err := c.invoke(ctx, MethodGetSummary, map[string]any{})
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (c *Client) SimulateTransfers(ctx context.Context, fromID, toID string, amount decimal.Decimal, count int, opposing bool) (*SimulationResult, error) {
	out, err := c.invoke(ctx, MethodSimulateTransfers, map[string]any{
		"from_account_id": fromID,
		"to_account_id":   toID,
		"amount":          amount.String(),
		"count":           count,
		"opposing":        opposing,
	})
	if err != nil {
		return nil, err
	}

	fields := out.GetFields()
	res := &SimulationResult{
		Attempts:  int(fields["attempts"].GetNumberValue()),
		Succeeded: int(fields["succeeded"].GetNumberValue()),
		Failed:    int(fields["failed"].GetNumberValue()),
		TimedOut:  int(fields["timed_out"].GetNumberValue()),
		Completed: fields["completed"].GetBoolValue(),
	}
	if res.BalancesBefore, err = balancesFromValue(fields["balances_before"]); err != nil {
		return nil, err
	}
	if res.BalancesAfter, err = balancesFromValue(fields["balances_after"]); err != nil {
		return nil, err
	}
	return res, nil
}

func balancesFromValue(v *structpb.Value) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for id, bal := range v.GetStructValue().GetFields() {
		d, err := decimal.NewFromString(bal.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("invalid balance for %s in response: %w", id, err)
		}
		out[id] = d
	}
	return out, nil
}
