package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AuthorizationHeader, validToken),
			),
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name: "Valid Bearer Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AuthorizationHeader, "Bearer "+validToken),
			),
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AuthorizationHeader, "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Metadata",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req any) (any, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{FullMethod: FullMethod(MethodDeposit)}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel zapcore.Level
		wantMsg   string
		wantCode  string
	}{
		{name: "ok", wantLevel: zapcore.DebugLevel, wantMsg: "rpc handled", wantCode: "OK"},
		{name: "rejected", err: status.Error(codes.FailedPrecondition, "insufficient funds"), wantLevel: zapcore.InfoLevel, wantMsg: "rpc rejected", wantCode: "FailedPrecondition"},
		{name: "internal", err: status.Error(codes.Internal, "boom"), wantLevel: zapcore.ErrorLevel, wantMsg: "rpc failed", wantCode: "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := LoggingInterceptor(zap.New(core))

			handler := func(ctx context.Context, req any) (any, error) {
				return "resp", tt.err
			}
			info := &grpc.UnaryServerInfo{FullMethod: FullMethod(MethodTransfer)}

			resp, err := interceptor(context.Background(), "req", info, handler)
			assert.Equal(t, "resp", resp)
			assert.Equal(t, tt.err, err)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tt.wantMsg, entries[0].Message)

			fields := entries[0].ContextMap()
			assert.Equal(t, "/bankledger.v1.LedgerService/Transfer", fields["method"])
			assert.Equal(t, tt.wantCode, fields["code"])
		})
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := RecoveryInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: FullMethod(MethodSimulateTransfers)}

	t.Run("panic becomes Internal", func(t *testing.T) {
		handler := func(ctx context.Context, req any) (any, error) {
			panic("makeslice: len out of range")
		}

		var (
			resp any
			err  error
		)
		require.NotPanics(t, func() {
			resp, err = interceptor(context.Background(), "req", info, handler)
		})
		assert.Nil(t, resp)
		assert.Equal(t, codes.Internal, status.Code(err))

		entries := logs.FilterMessage("rpc handler panicked").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "/bankledger.v1.LedgerService/SimulateTransfers", entries[0].ContextMap()["method"])
	})

	t.Run("passes through", func(t *testing.T) {
		handler := func(ctx context.Context, req any) (any, error) {
			return "resp", status.Error(codes.NotFound, "missing")
		}
		resp, err := interceptor(context.Background(), "req", info, handler)
		assert.Equal(t, "resp", resp)
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}
