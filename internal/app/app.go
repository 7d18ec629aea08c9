package app

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/bankledger-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/bankledger-backend/internal/adapter/http"
	"github.com/simaogato/bankledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/bankledger-backend/internal/config"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/idgen"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"github.com/simaogato/bankledger-backend/internal/usecase/loadtest"
	"github.com/simaogato/bankledger-backend/internal/usecase/registry"
	"github.com/simaogato/bankledger-backend/internal/usecase/seeder"
	"github.com/simaogato/bankledger-backend/internal/usecase/summary"
	"github.com/simaogato/bankledger-backend/internal/usecase/transfer"
)

// App wires the stores, services and transports together
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Accounts  domain.AccountRepository
	Customers domain.CustomerRepository
	Ledger    domain.Ledger

	Registry *registry.Service
	Engine   *transfer.Engine
	Summary  *summary.Service
	Harness  *loadtest.Harness
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)

	ids, err := idgen.New(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	accounts := memory.NewAccountRepository()
	customers := memory.NewCustomerRepository()
	ledger := memory.NewLedgerRepository()

	engine := transfer.NewEngine(accounts, ledger, ids, log.Named("engine"))

	return &App{
		Config:    cfg,
		Log:       log,
		Accounts:  accounts,
		Customers: customers,
		Ledger:    ledger,
		Registry:  registry.NewService(accounts, customers, ids, log.Named("registry")),
		Engine:    engine,
		Summary:   summary.NewService(accounts, ledger),
		Harness: loadtest.NewHarness(engine, loadtest.Config{
			Timeout:     cfg.HarnessTimeout,
			Workers:     cfg.HarnessWorkers,
			MaxAttempts: cfg.HarnessMaxAttempts,
		}, log.Named("loadtest")),
	}, nil
}

// Seed creates the demo customers and accounts
func (app *App) Seed(ctx context.Context) (*seeder.Seeded, error) {
	return seeder.NewSeeder(app.Registry).Seed(ctx)
}

// GRPCServer builds a gRPC server with the ledger service registered
func (app *App) GRPCServer() *grpclib.Server {
	srv := grpclib.NewServer(grpclib.ChainUnaryInterceptor(
		grpcadapter.LoggingInterceptor(app.Log.Named("grpc")),
		grpcadapter.RecoveryInterceptor(app.Log.Named("grpc")),
		grpcadapter.AuthInterceptor(app.Config.APIToken),
	))
	grpcadapter.RegisterLedgerServiceServer(srv, grpcadapter.NewServer(app.Registry, app.Engine, app.Summary, app.Harness))
	return srv
}

// Router builds the HTTP API router
func (app *App) Router() *chi.Mux {
	h := httpadapter.NewHandler(app.Registry, app.Engine, app.Summary, app.Log.Named("http"))
	return httpadapter.NewRouter(h, app.Config.APIToken, app.Log.Named("http"))
}
