package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Synchronizer brings one (ticker, interval) up to date.
type Synchronizer interface {
	Sync(ctx context.Context, request syncengine.Request) (syncengine.Result, error)
}

// TickerSource lists the tickers to refresh.
type TickerSource interface {
	Load() ([]string, error)
}

// RefreshObserver receives the totals of a finished refresh.
type RefreshObserver interface {
	ObserveRefresh(succeeded int, failed int, finished time.Time)
}

// TickerResult is the outcome of refreshing one ticker over both intervals.
type TickerResult struct {
	Ticker string
	Rows   map[types.Interval]int
	Err    error
}

// Report summarizes one refresh.
type Report struct {
	Started   time.Time
	Finished  time.Time
	Succeeded []string
	Failed    map[string]error
}

// Progress is called once per ticker as it completes. Calls are serialized.
type Progress func(result TickerResult)

// RefresherOptions tunes a Refresher.
type RefresherOptions struct {
	Years       int
	Concurrency int
	Now         func() time.Time
	Observer    RefreshObserver
}

// Refresher synchronizes every watchlist ticker for both intervals.
type Refresher struct {
	synchronizer Synchronizer
	tickers      TickerSource
	options      RefresherOptions
	logger       *logger.Logger
}

// NewRefresher creates a refresher.
func NewRefresher(synchronizer Synchronizer, tickers TickerSource, options RefresherOptions, log *logger.Logger) *Refresher {
	if options.Concurrency <= 0 {
		options.Concurrency = 2
	}

	if options.Now == nil {
		options.Now = time.Now
	}

	return &Refresher{
		synchronizer: synchronizer,
		tickers:      tickers,
		options:      options,
		logger:       log,
	}
}

// Tickers returns the tickers the next run would refresh.
func (r *Refresher) Tickers() ([]string, error) {
	return r.tickers.Load()
}

// Run refreshes all tickers. A failing ticker does not stop the others.
// Only a watchlist read error or a cancelled context fails the run.
func (r *Refresher) Run(ctx context.Context, progress Progress) (Report, error) {
	started := r.options.Now()

	report := Report{
		Started:   started,
		Finished:  time.Time{},
		Succeeded: []string{},
		Failed:    map[string]error{},
	}

	tickers, err := r.tickers.Load()
	if err != nil {
		return report, err
	}

	dateRange := syncengine.ComputeDateRange(r.options.Years, started)

	r.logger.Info("Refreshing watchlist", zap.Int("tickers", len(tickers)), zap.Int("years", dateRange.Years))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.options.Concurrency)

	for _, ticker := range tickers {
		g.Go(func() error {
			result := r.refreshTicker(gctx, dateRange, ticker)

			mu.Lock()
			defer mu.Unlock()

			if result.Err != nil {
				report.Failed[ticker] = result.Err
			} else {
				report.Succeeded = append(report.Succeeded, ticker)
			}

			if progress != nil {
				progress(result)
			}

			return nil
		})
	}

	_ = g.Wait()

	report.Finished = r.options.Now()

	if r.options.Observer != nil {
		r.options.Observer.ObserveRefresh(len(report.Succeeded), len(report.Failed), report.Finished)
	}

	r.logger.Info("Watchlist refresh finished",
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("duration", report.Finished.Sub(report.Started)),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, nil
}

func (r *Refresher) refreshTicker(ctx context.Context, dateRange syncengine.DateRange, ticker string) TickerResult {
	result := TickerResult{
		Ticker: ticker,
		Rows:   map[types.Interval]int{},
		Err:    nil,
	}

	for _, interval := range types.Intervals() {
		synced, err := r.synchronizer.Sync(ctx, dateRange.Request(ticker, interval))
		if err != nil {
			r.logger.Warn("Refresh failed", zap.String("ticker", ticker), zap.String("interval", interval.String()), zap.Error(err))
			result.Err = err

			return result
		}

		result.Rows[interval] = synced.Rows
	}

	return result
}
