package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/simaogato/bankledger-backend/internal/app"
	"github.com/simaogato/bankledger-backend/internal/config"
	"github.com/simaogato/bankledger-backend/internal/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	zl, _, err := logger.New(logger.Config{
		Environment: logger.Environment(cfg.Environment),
		Level:       cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("error starting logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	a, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("error creating app", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if cfg.SeedDemo {
		seeded, err := a.Seed(ctx)
		if err != nil {
			zl.Fatal("failed to seed demo accounts", zap.Error(err))
		}
		for _, acc := range seeded.Accounts {
			zl.Info("demo account seeded",
				zap.String("account_id", acc.ID),
				zap.String("kind", string(acc.Kind)),
				zap.String("balance", acc.Balance().String()),
			)
		}
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		zl.Fatal("failed to listen", zap.String("address", cfg.GRPCAddress), zap.Error(err))
	}
	httpLis, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		zl.Fatal("failed to listen", zap.String("address", cfg.HTTPAddress), zap.Error(err))
	}

	if err := serve(ctx, a, grpcLis, httpLis); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

// serve runs the gRPC and HTTP servers until ctx is done or either server fails,
// then shuts both down.
func serve(ctx context.Context, a *app.App, grpcLis, httpLis net.Listener) error {
	zl := a.Log
	grpcServer := a.GRPCServer()
	httpServer := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		zl.Info("gRPC server listening", zap.String("address", grpcLis.Addr().String()))
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		zl.Info("HTTP server listening", zap.String("address", httpLis.Addr().String()))
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("error shutting down HTTP server", zap.Error(err))
	}
	zl.Info("HTTP server stopped")

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
	zl.Info("gRPC server stopped")

	return serveErr
}
