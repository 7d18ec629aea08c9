// Command simulate runs the demo banking flow and a concurrent transfer load
// against an in-process ledger, then prints balances, history and the load report.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/bankledger-backend/internal/app"
	"github.com/simaogato/bankledger-backend/internal/config"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"github.com/simaogato/bankledger-backend/internal/usecase/loadtest"
)

// Amounts of the demo flow run against the first seeded savings account
var (
	demoDeposit    = decimal.NewFromInt(2000)
	demoWithdrawal = decimal.NewFromInt(1500)
	demoTransfer   = decimal.NewFromInt(1000)
)

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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, zl, os.Stdout); err != nil {
		zl.Fatal("simulation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger, out io.Writer) error {
	a, err := app.New(cfg, zl)
	if err != nil {
		return err
	}

	seeded, err := a.Seed(ctx)
	if err != nil {
		return err
	}
	savings, current, third := seeded.Accounts[0], seeded.Accounts[1], seeded.Accounts[2]

	fmt.Fprintln(out, "== Demo flow")
	if _, err := a.Engine.Deposit(ctx, savings.ID, demoDeposit); err != nil {
		return err
	}
	if _, err := a.Engine.Withdraw(ctx, savings.ID, demoWithdrawal); err != nil {
		return err
	}
	if _, err := a.Engine.Transfer(ctx, savings.ID, current.ID, demoTransfer); err != nil {
		return err
	}

	for _, acc := range []string{savings.ID, current.ID} {
		bal, err := a.Engine.GetBalance(ctx, acc)
		if err != nil {
			return err
		}
		interest, err := a.Engine.Interest(ctx, acc)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s balance %s interest %s\n", acc, bal.StringFixed(2), interest.StringFixed(2))
	}

	records, err := a.Engine.GetTransactions(ctx, savings.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s transactions:\n", savings.ID)
	for _, r := range records {
		line := fmt.Sprintf("  %s %-8s %10s %s", r.ID, r.Kind, r.Amount.StringFixed(2), r.Timestamp.Format("2006-01-02 15:04:05.000"))
		if r.CounterpartyID != "" {
			line += " -> " + r.CounterpartyID
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, "== Concurrent transfers")
	report, err := a.Harness.Run(ctx, third.ID, savings.ID, decimal.NewFromInt(500), cfg.SimulationSize)
	if err != nil {
		return err
	}
	printReport(out, fmt.Sprintf("%s -> %s", third.ID, savings.ID), report)

	fmt.Fprintln(out, "== Opposing transfers")
	report, err = a.Harness.RunOpposing(ctx, current.ID, third.ID, decimal.NewFromInt(10), cfg.SimulationSize)
	if err != nil {
		return err
	}
	printReport(out, fmt.Sprintf("%s <-> %s", current.ID, third.ID), report)

	sum, err := a.Summary.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "== Summary: %d accounts, total %s, projected interest %s, %d transactions\n",
		sum.Accounts, sum.TotalBalance.StringFixed(2), sum.ProjectedInterest.StringFixed(2), sum.TotalTransactions)
	return nil
}

func printReport(out io.Writer, label string, r *loadtest.Report) {
	fmt.Fprintf(out, "%s: %d attempts, %d succeeded, %d failed, %d timed out, completed=%t in %s\n",
		label, len(r.Results), r.Succeeded, r.Failed, r.TimedOut, r.Completed, r.Elapsed)
	for _, id := range slices.Sorted(maps.Keys(r.BalancesBefore)) {
		fmt.Fprintf(out, "  %s %s -> %s\n", id, r.BalancesBefore[id].StringFixed(2), r.BalancesAfter[id].StringFixed(2))
	}
}
