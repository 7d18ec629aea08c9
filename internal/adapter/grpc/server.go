package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/usecase/loadtest"
	"github.com/simaogato/bankledger-backend/internal/usecase/registry"
	"github.com/simaogato/bankledger-backend/internal/usecase/summary"
	"github.com/simaogato/bankledger-backend/internal/usecase/transfer"
)

// Server implements the LedgerService gRPC server
type Server struct {
	RegistryService *registry.Service
	Engine          *transfer.Engine
	SummaryService  *summary.Service
	Harness         *loadtest.Harness
}

var _ LedgerServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	registryService *registry.Service,
	engine *transfer.Engine,
	summaryService *summary.Service,
	harness *loadtest.Harness,
) *Server {
	return &Server{
		RegistryService: registryService,
		Engine:          engine,
		SummaryService:  summaryService,
		Harness:         harness,
	}
}

// RegisterCustomer handles the RegisterCustomer RPC
func (s *Server) RegisterCustomer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	customer, err := s.RegistryService.RegisterCustomer(ctx, registry.RegisterCustomerInput{
		Name:        optionalStringField(req, "name"),
		Email:       optionalStringField(req, "email"),
		Phone:       optionalStringField(req, "phone"),
		DateOfBirth: optionalStringField(req, "date_of_birth"),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(customerToMap(customer))
}

// CreateAccount handles the CreateAccount RPC
func (s *Server) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	customerID, err := stringField(req, "customer_id")
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseAccountKind(optionalStringField(req, "kind"))
	if err != nil {
		return nil, mapError(err)
	}
	initial, err := decimalField(req, "initial_balance")
	if err != nil {
		return nil, err
	}

	account, err := s.RegistryService.CreateAccount(ctx, registry.CreateAccountInput{
		CustomerID:     customerID,
		Kind:           kind,
		InitialBalance: initial,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(accountToMap(account.Snapshot()))
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := stringField(req, "account_id")
	if err != nil {
		return nil, err
	}
	snap, err := s.RegistryService.GetAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(accountToMap(snap))
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := stringField(req, "account_id")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	rec, err := s.Engine.Deposit(ctx, accountID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(recordToMap(rec))
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := stringField(req, "account_id")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	rec, err := s.Engine.Withdraw(ctx, accountID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(recordToMap(rec))
}

// Transfer handles the Transfer RPC
func (s *Server) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fromID, err := stringField(req, "from_account_id")
	if err != nil {
		return nil, err
	}
	toID, err := stringField(req, "to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	rec, err := s.Engine.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(recordToMap(rec))
}

// GetBalance handles the GetBalance RPC. The response also carries the projected interest.
func (s *Server) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := stringField(req, "account_id")
	if err != nil {
		return nil, err
	}

	balance, err := s.Engine.GetBalance(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	interest, err := s.Engine.Interest(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]any{
		"account_id": accountID,
		"balance":    balance.String(),
		"interest":   interest.String(),
	})
}

// GetTransactions handles the GetTransactions RPC
func (s *Server) GetTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := stringField(req, "account_id")
	if err != nil {
		return nil, err
	}

	records, err := s.Engine.GetTransactions(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]any, 0, len(records))
	for i := range records {
		items = append(items, recordToMap(&records[i]))
	}
	return toStruct(map[string]any{
		"account_id":   accountID,
		"transactions": items,
	})
}

// GetSummary handles the GetSummary RPC
func (s *Server) GetSummary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.SummaryService.Summarize(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(summaryToMap(res))
}

// SimulateTransfers handles the SimulateTransfers RPC.
// With "opposing" set, count transfers run in each direction.
func (s *Server) SimulateTransfers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fromID, err := stringField(req, "from_account_id")
	if err != nil {
		return nil, err
	}
	toID, err := stringField(req, "to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}
	count, err := intField(req, "count")
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "count must be positive")
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, mapError(err)
	}

	var report *loadtest.Report
	if boolField(req, "opposing") {
		report, err = s.Harness.RunOpposing(ctx, fromID, toID, amount, count)
	} else {
		report, err = s.Harness.Run(ctx, fromID, toID, amount, count)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(reportToMap(report))
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountKind),
		errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, loadtest.ErrTooManyAttempts):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccountExists), errors.Is(err, domain.ErrCustomerExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
