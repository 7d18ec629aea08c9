// Package loadtest fires many concurrent transfers at the engine and reports
// what happened to each one. It holds no business rules of its own.
package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bankledger-backend/internal/domain"
	"github.com/simaogato/bankledger-backend/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAttemptTimedOut marks an attempt that had started but not returned by the deadline
	ErrAttemptTimedOut = errors.New("attempt still running at deadline")

	// ErrAttemptPanicked marks an attempt whose goroutine panicked
	ErrAttemptPanicked = errors.New("attempt panicked")

	// ErrTooManyAttempts is returned, before anything runs, when a run exceeds Config.MaxAttempts
	ErrTooManyAttempts = errors.New("too many attempts")
)

// DefaultMaxAttempts caps a run when Config.MaxAttempts is zero
const DefaultMaxAttempts = 10000

// Transferrer is the part of the transfer engine the harness drives
type Transferrer interface {
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Config bounds a harness run
type Config struct {
	Timeout time.Duration
	Workers     int // 0 runs every attempt at once
	MaxAttempts int // 0 means DefaultMaxAttempts
}

// Attempt is one transfer to perform
type Attempt struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// AttemptResult is the outcome of one attempt
type AttemptResult struct {
	Attempt
	Index         int
	TransactionID string
	Err           error
	TimedOut      bool
}

// Report summarizes a run
type Report struct {
	Results        []AttemptResult
	Succeeded      int
	Failed         int
	TimedOut       int
	Completed      bool // every attempt returned before the deadline
	Elapsed        time.Duration
	BalancesBefore map[string]decimal.Decimal
	BalancesAfter  map[string]decimal.Decimal
}

// Harness runs concurrent transfer attempts
type Harness struct {
	engine Transferrer
	cfg    Config
	log    *zap.Logger
}

// NewHarness creates a new Harness instance
func NewHarness(engine Transferrer, cfg Config, log *zap.Logger) *Harness {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Harness{engine: engine, cfg: cfg, log: logger.OrNop(log)}
}

// checkCount validates n attempts per direction
func (h *Harness) checkCount(n, directions int) error {
	if n <= 0 {
		return fmt.Errorf("attempt count must be positive, got %d", n)
	}
	if n > h.cfg.MaxAttempts/directions {
		return fmt.Errorf("%w: %d x %d exceeds the limit of %d", ErrTooManyAttempts, n, directions, h.cfg.MaxAttempts)
	}
	return nil
}

// Run launches n concurrent fromID -> toID transfers of amount
func (h *Harness) Run(ctx context.Context, fromID, toID string, amount decimal.Decimal, n int) (*Report, error) {
	if err := h.checkCount(n, 1); err != nil {
		return nil, err
	}

	attempts := make([]Attempt, n)
	for i := range attempts {
		attempts[i] = Attempt{From: fromID, To: toID, Amount: amount}
	}
	return h.RunAttempts(ctx, attempts)
}

// RunOpposing launches n a -> b and n b -> a transfers, interleaved
func (h *Harness) RunOpposing(ctx context.Context, a, b string, amount decimal.Decimal, n int) (*Report, error) {
	if err := h.checkCount(n, 2); err != nil {
		return nil, err
	}

	attempts := make([]Attempt, 0, 2*n)
	for i := 0; i < n; i++ {
		attempts = append(attempts,
			Attempt{From: a, To: b, Amount: amount},
			Attempt{From: b, To: a, Amount: amount},
		)
	}
	return h.RunAttempts(ctx, attempts)
}

// RunAttempts runs the given attempts concurrently and waits for them, bounded by
// the configured timeout. A failing attempt never cancels the others.
func (h *Harness) RunAttempts(ctx context.Context, attempts []Attempt) (*Report, error) {
	if len(attempts) > h.cfg.MaxAttempts {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManyAttempts, len(attempts), h.cfg.MaxAttempts)
	}

	before, err := h.balances(ctx, attempts)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if h.cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
	}
	defer cancel()

	results := make([]AttemptResult, len(attempts))
	started := make([]atomic.Bool, len(attempts))
	finished := make([]atomic.Bool, len(attempts))

	var g errgroup.Group
	if h.cfg.Workers > 0 {
		g.SetLimit(h.cfg.Workers)
	}

	start := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range attempts {
			g.Go(func() error {
				results[i] = h.attempt(runCtx, i, attempts[i], &started[i])
				finished[i].Store(true)
				return nil
			})
		}
		_ = g.Wait()
	}()

	completed := false
	select {
	case <-done:
		completed = true
	case <-runCtx.Done():
		select {
		case <-done:
			completed = true
		default:
		}
	}

	report := &Report{
		Results:        make([]AttemptResult, len(attempts)),
		Completed:      completed,
		Elapsed:        time.Since(start),
		BalancesBefore: before,
	}

	for i := range attempts {
		var r AttemptResult
		switch {
		case finished[i].Load():
			r = results[i]
		case started[i].Load():
			r = AttemptResult{Attempt: attempts[i], Index: i, Err: ErrAttemptTimedOut, TimedOut: true}
		default:
			r = AttemptResult{Attempt: attempts[i], Index: i, Err: runCtx.Err()}
		}

		switch {
		case r.TimedOut:
			report.TimedOut++
		case r.Err != nil:
			report.Failed++
		default:
			report.Succeeded++
		}
		report.Results[i] = r
	}

	report.BalancesAfter, err = h.balances(context.WithoutCancel(ctx), attempts)
	if err != nil {
		return nil, err
	}

	h.log.Info("load run finished",
		zap.Int("attempts", len(attempts)),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("timed_out", report.TimedOut),
		zap.Bool("completed", report.Completed),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (h *Harness) attempt(ctx context.Context, i int, a Attempt, started *atomic.Bool) (res AttemptResult) {
	res = AttemptResult{Attempt: a, Index: i}

	defer func() {
		if recovered := recover(); recovered != nil {
			h.log.Error("transfer attempt panicked", zap.Int("index", i), zap.Any("panic", recovered))
			res.Err = fmt.Errorf("%w: %v", ErrAttemptPanicked, recovered)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	started.Store(true)
	rec, err := h.engine.Transfer(ctx, a.From, a.To, a.Amount)
	if err != nil {
		res.Err = err
		return res
	}
	res.TransactionID = rec.ID
	return res
}

func (h *Harness) balances(ctx context.Context, attempts []Attempt) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, a := range attempts {
		for _, id := range []string{a.From, a.To} {
			if _, seen := out[id]; seen {
				continue
			}
			bal, err := h.engine.GetBalance(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to read balance of %s: %w", id, err)
			}
			out[id] = bal
		}
	}
	return out, nil
}
