package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "bankledger.v1.LedgerService"

// RPC method names
const (
	MethodRegisterCustomer  = "RegisterCustomer"
	MethodCreateAccount     = "CreateAccount"
	MethodGetAccount        = "GetAccount"
	MethodDeposit           = "Deposit"
	MethodWithdraw          = "Withdraw"
	MethodTransfer          = "Transfer"
	MethodGetBalance        = "GetBalance"
	MethodGetTransactions   = "GetTransactions"
	MethodGetSummary        = "GetSummary"
	MethodSimulateTransfers = "SimulateTransfers"
)

// FullMethod returns the "/service/method" path of an RPC
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// LedgerServiceServer is the server API for the ledger service.
// Requests and responses are google.protobuf.Struct messages.
type LedgerServiceServer interface {
	RegisterCustomer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulateTransfers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerServiceDesc is the grpc.ServiceDesc for the ledger service
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRegisterCustomer, Handler: unaryHandler(MethodRegisterCustomer, LedgerServiceServer.RegisterCustomer)},
		{MethodName: MethodCreateAccount, Handler: unaryHandler(MethodCreateAccount, LedgerServiceServer.CreateAccount)},
		{MethodName: MethodGetAccount, Handler: unaryHandler(MethodGetAccount, LedgerServiceServer.GetAccount)},
		{MethodName: MethodDeposit, Handler: unaryHandler(MethodDeposit, LedgerServiceServer.Deposit)},
		{MethodName: MethodWithdraw, Handler: unaryHandler(MethodWithdraw, LedgerServiceServer.Withdraw)},
		{MethodName: MethodTransfer, Handler: unaryHandler(MethodTransfer, LedgerServiceServer.Transfer)},
		{MethodName: MethodGetBalance, Handler: unaryHandler(MethodGetBalance, LedgerServiceServer.GetBalance)},
		{MethodName: MethodGetTransactions, Handler: unaryHandler(MethodGetTransactions, LedgerServiceServer.GetTransactions)},
		{MethodName: MethodGetSummary, Handler: unaryHandler(MethodGetSummary, LedgerServiceServer.GetSummary)},
		{MethodName: MethodSimulateTransfers, Handler: unaryHandler(MethodSimulateTransfers, LedgerServiceServer.SimulateTransfers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bankledger/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}
