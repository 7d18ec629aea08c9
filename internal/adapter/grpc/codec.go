package grpc

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/usecase/loadtest"
	"github.com/simaogato/bankledger-backend/internal/usecase/summary"
)

// Request field access. Missing or mistyped fields are InvalidArgument.

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return s.StringValue, nil
}

func optionalStringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// decimalField accepts either a decimal string ("12.50") or a number
func decimalField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(k.StringValue)
		if err != nil {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
		}
		return d, nil
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue), nil
	default:
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s must be a string or number", name)
	}
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	if math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s is out of range", name)
	}
	return int(n.NumberValue), nil
}

func boolField(req *structpb.Struct, name string) bool {
	return req.GetFields()[name].GetBoolValue()
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

// Encoders

func customerToMap(c *domain.Customer) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"name":          c.Name,
		"email":         c.Email,
		"phone":         c.Phone,
		"date_of_birth": c.DateOfBirth.Format(domain.DateOfBirthLayout),
	}
}

func accountToMap(a domain.AccountSnapshot) map[string]any {
	return map[string]any{
		"id":          a.ID,
		"customer_id": a.CustomerID,
		"kind":        string(a.Kind),
		"balance":     a.Balance.String(),
		"created_at":  a.CreatedAt.Format(time.RFC3339Nano),
	}
}

func recordToMap(r *domain.TransactionRecord) map[string]any {
	m := map[string]any{
		"id":         r.ID,
		"account_id": r.AccountID,
		"kind":       string(r.Kind),
		"amount":     r.Amount.String(),
		"timestamp":  r.Timestamp.Format(time.RFC3339Nano),
		"sequence":   r.Sequence,
	}
	if r.CounterpartyID != "" {
		m["counterparty_id"] = r.CounterpartyID
	}
	return m
}

func summaryToMap(res *summary.Result) map[string]any {
	byKind := make(map[string]any, len(res.ByKind))
	for kind, totals := range res.ByKind {
		byKind[string(kind)] = map[string]any{
			"accounts":           totals.Accounts,
			"balance":            totals.Balance.String(),
			"projected_interest": totals.ProjectedInterest.String(),
		}
	}
	txCounts := make(map[string]any, len(res.Transactions))
	for kind, n := range res.Transactions {
		txCounts[string(kind)] = n
	}
	return map[string]any{
		"accounts":           res.Accounts,
		"total_balance":      res.TotalBalance.String(),
		"projected_interest": res.ProjectedInterest.String(),
		"by_kind":            byKind,
		"transactions":       txCounts,
		"total_transactions": res.TotalTransactions,
	}
}

func reportToMap(r *loadtest.Report) map[string]any {
	failures := make([]any, 0, r.Failed+r.TimedOut)
	for _, res := range r.Results {
		if res.Err == nil {
			continue
		}
		failures = append(failures, map[string]any{
			"index":     res.Index,
			"from":      res.From,
			"to":        res.To,
			"error":     res.Err.Error(),
			"timed_out": res.TimedOut,
		})
	}
	return map[string]any{
		"attempts":        len(r.Results),
		"succeeded":       r.Succeeded,
		"failed":          r.Failed,
		"timed_out":       r.TimedOut,
		"completed":       r.Completed,
		"elapsed_ms":      r.Elapsed.Milliseconds(),
		"balances_before": balancesToMap(r.BalancesBefore),
		"balances_after":  balancesToMap(r.BalancesAfter),
		"failures":        failures,
	}
}

func balancesToMap(b map[string]decimal.Decimal) map[string]any {
	m := make(map[string]any, len(b))
	for id, bal := range b {
		m[id] = bal.String()
	}
	return m
}

// Decoders, used by Client

func customerFromStruct(s *structpb.Struct) (*domain.Customer, error) {
	dob, err := time.Parse(domain.DateOfBirthLayout, optionalStringField(s, "date_of_birth"))
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth in response: %w", err)
	}
	return &domain.Customer{
		ID:          optionalStringField(s, "id"),
		Name:        optionalStringField(s, "name"),
		Email:       optionalStringField(s, "email"),
		Phone:       optionalStringField(s, "phone"),
		DateOfBirth: dob,
	}, nil
}

func accountFromStruct(s *structpb.Struct) (domain.AccountSnapshot, error) {
	balance, err := decimal.NewFromString(optionalStringField(s, "balance"))
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("invalid balance in response: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, optionalStringField(s, "created_at"))
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("invalid created_at in response: %w", err)
	}
	return domain.AccountSnapshot{
		ID:         optionalStringField(s, "id"),
		CustomerID: optionalStringField(s, "customer_id"),
		Kind:       domain.AccountKind(optionalStringField(s, "kind")),
		Balance:    balance,
		CreatedAt:  createdAt,
	}, nil
}

func recordFromStruct(s *structpb.Struct) (*domain.TransactionRecord, error) {
	amount, err := decimal.NewFromString(optionalStringField(s, "amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount in response: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, optionalStringField(s, "timestamp"))
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp in response: %w", err)
	}
	return &domain.TransactionRecord{
		ID:             optionalStringField(s, "id"),
		AccountID:      optionalStringField(s, "account_id"),
		CounterpartyID: optionalStringField(s, "counterparty_id"),
		Kind:           domain.TransactionKind(optionalStringField(s, "kind")),
		Amount:         amount,
		Timestamp:      ts,
		Sequence:       uint64(s.GetFields()["sequence"].GetNumberValue()),
	}, nil
}
