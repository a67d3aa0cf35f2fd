package syncengine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 30 * time.Second

// Sync outcomes reported to the Observer.
const (
	OutcomeCache    = "cache"
	OutcomeFetched  = "fetched"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// Cache is the persisted time series store.
type Cache interface {
	// Load returns None when nothing usable is stored for the key.
	Load(ticker string, interval types.Interval) optional.Option[types.Series]
	// Save replaces the stored series of the key.
	Save(series types.Series, ticker string, interval types.Interval) error
}

// IndicatorComputer adds indicator columns to a series.
type IndicatorComputer interface {
	Compute(series types.Series) (types.Series, error)
}

// Observer receives synchronization measurements.
type Observer interface {
	ObserveSync(interval types.Interval, outcome string, duration time.Duration)
	ObserveFetch(provider string, interval types.Interval, rows int, err error)
	ObservePersist(interval types.Interval)
}

type nopObserver struct{}

func (nopObserver) ObserveSync(types.Interval, string, time.Duration) {}
func (nopObserver) ObserveFetch(string, types.Interval, int, error)   {}
func (nopObserver) ObservePersist(types.Interval)                     {}

// Request describes one synchronization. Start and End bound the fetch; DisplayStart
// trims the returned rows and may be zero to return everything.
type Request struct {
	Ticker       string         `validate:"required"`
	Interval     types.Interval `validate:"required,oneof=1d 1wk"`
	Start        time.Time      `validate:"required"`
	End          time.Time      `validate:"required"`
	DisplayStart time.Time
}

// Result is the display-ready outcome of a synchronization.
type Result struct {
	RunID       string
	Ticker      string
	Interval    types.Interval
	Series      types.Series
	Rows        int
	FetchedRows int
	UsedCache   bool
	FellBack    bool
	Persisted   bool
	Reasons     []string
}

// Options tunes a Synchronizer. Zero values select the defaults.
type Options struct {
	Timeout  time.Duration
	Observer Observer
	Now      func() time.Time
}

// Synchronizer keeps the cache of a (ticker, interval) current and returns the series with indicators.
type Synchronizer struct {
	cache    Cache
	provider provider.Provider
	planner  *Planner
	pipeline IndicatorComputer
	timeout  time.Duration
	observer Observer
	locks    *keyedMutex
	validate *validator.Validate
	logger   *logger.Logger
}

// NewSynchronizer wires a synchronizer. The provider is owned by the caller.
func NewSynchronizer(cache Cache, marketProvider provider.Provider, pipeline IndicatorComputer, options Options, log *logger.Logger) *Synchronizer {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	if options.Observer == nil {
		options.Observer = nopObserver{}
	}

	if options.Now == nil {
		options.Now = time.Now
	}

	return &Synchronizer{
		cache:    cache,
		provider: marketProvider,
		planner:  NewPlannerWithClock(options.Now, log),
		pipeline: pipeline,
		timeout:  options.Timeout,
		observer: options.Observer,
		locks:    newKeyedMutex(),
		validate: validator.New(),
		logger:   log,
	}
}

// Sync loads the cache, fetches the missing range, merges, persists when the data changed
// and returns the indicator series from the display start on.
//
// Provider failures and timeouts are not returned: they count as "no new rows" and the cached
// data is used. If nothing is available at all the returned series is empty.
// Only one Sync per (ticker, interval) runs at a time.
func (s *Synchronizer) Sync(ctx context.Context, request Request) (Result, error) {
	if err := s.validate.Struct(request); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid sync request", err)
	}

	runID := uuid.NewString()
	log := s.logger.With(
		zap.String("run_id", runID),
		zap.String("ticker", request.Ticker),
		zap.String("interval", request.Interval.String()),
	)
	started := time.Now()

	unlock := s.locks.Lock(request.Ticker + "|" + request.Interval.String())
	defer unlock()

	if err := ctx.Err(); err != nil {
		s.observer.ObserveSync(request.Interval, OutcomeError, time.Since(started))

		return Result{}, errors.Wrap(errors.ErrCodeSyncCancelled, "sync cancelled before start", err)
	}

	result := Result{
		RunID:       runID,
		Ticker:      request.Ticker,
		Interval:    request.Interval,
		Series:      types.NewSeries(request.Ticker, request.Interval),
		Rows:        0,
		FetchedRows: 0,
		UsedCache:   false,
		FellBack:    false,
		Persisted:   false,
		Reasons:     nil,
	}

	cached := s.cache.Load(request.Ticker, request.Interval)
	plan := s.planner.Plan(request.Ticker, request.Interval, cached, request.Start, request.End)
	candidate := plan.Base

	switch {
	case plan.FetchStart.IsNone():
		log.Info("No fetch needed, using local data")

		result.UsedCache = true
	case plan.NeedsFetch(request.End):
		fetched := s.fetch(ctx, log, request, plan.FetchStart.Unwrap())
		result.FetchedRows = fetched.Series.Len()

		if fetched.Series.IsEmpty() {
			if !fetched.Failed() {
				log.Info("No new rows fetched", zap.Time("fetch_start", plan.FetchStart.Unwrap()))
			}

			// Base may lack the provisional last bar; keep the cache exactly as stored.
			if cached.IsSome() {
				candidate = cached.Unwrap()
			}

			result.UsedCache = !candidate.IsEmpty()
		} else {
			candidate = Merge(plan.Base, fetched.Series)
		}
	default:
		log.Debug("Fetch start is after the requested end, skipping fetch",
			zap.Time("fetch_start", plan.FetchStart.Unwrap()))
	}

	if candidate.IsEmpty() && !request.Start.After(request.End) {
		log.Info("Performing full fetch as a fallback",
			zap.Time("start", request.Start),
			zap.Time("end", request.End),
		)

		full := s.fetch(ctx, log, request, types.DateOf(request.Start))
		result.FetchedRows += full.Series.Len()

		if !full.Series.IsEmpty() {
			candidate = Merge(types.NewSeries(request.Ticker, request.Interval), full.Series)
			result.UsedCache = false
			result.FellBack = true
		} else {
			log.Warn("Full fetch returned no data")
		}
	}

	persist, reasons := ShouldPersist(candidate, cached)
	result.Reasons = reasons

	if persist {
		log.Info("Saving data", zap.Strings("reasons", reasons))

		if err := s.cache.Save(candidate, request.Ticker, request.Interval); err != nil {
			log.Error("Failed to save data", zap.Error(err))
		} else {
			result.Persisted = true
			s.observer.ObservePersist(request.Interval)
		}
	} else if !candidate.IsEmpty() {
		log.Debug("Data is unchanged compared to local data, no save needed")
	}

	if candidate.IsEmpty() {
		log.Warn("No data available")
		s.observer.ObserveSync(request.Interval, OutcomeEmpty, time.Since(started))

		return result, nil
	}

	computed, err := s.pipeline.Compute(candidate)
	if err != nil {
		s.observer.ObserveSync(request.Interval, OutcomeError, time.Since(started))

		return result, errors.Wrapf(errors.ErrCodeSyncFailed, err, "failed to compute indicators for %s", request.Ticker)
	}

	result.Series = computed.From(request.DisplayStart)
	result.Rows = result.Series.Len()

	if result.Series.IsEmpty() {
		log.Warn("No rows left after the display start", zap.Time("display_start", request.DisplayStart))
	}

	s.observer.ObserveSync(request.Interval, outcomeOf(result), time.Since(started))

	log.Info("Sync finished",
		zap.Int("rows", result.Rows),
		zap.Int("fetched_rows", result.FetchedRows),
		zap.Bool("persisted", result.Persisted),
		zap.Duration("duration", time.Since(started)),
	)

	return result, nil
}

// fetchOutcome separates a failed provider call from one that found no rows.
type fetchOutcome struct {
	Series types.Series
	Err    error
}

// Failed reports whether the provider call itself failed or timed out.
func (o fetchOutcome) Failed() bool {
	return o.Err != nil
}

// fetch calls the provider for [start, request.End] under the configured timeout.
// Failures are logged and carried in the outcome with an empty series.
func (s *Synchronizer) fetch(ctx context.Context, log *logger.Logger, request Request, start time.Time) fetchOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log.Info("Fetching data",
		zap.String("provider", s.provider.Name()),
		zap.Time("start", start),
		zap.Time("end", request.End),
	)

	series, err := s.provider.GetHistoricalData(fetchCtx, request.Ticker, start, request.End, request.Interval)
	s.observer.ObserveFetch(s.provider.Name(), request.Interval, series.Len(), err)

	if err != nil {
		err = fmt.Errorf("fetch %s from %s: %w", request.Ticker, start.Format(time.DateOnly), err)

		log.Warn("Fetch failed, continuing with local data",
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)

		return fetchOutcome{Series: types.NewSeries(request.Ticker, request.Interval), Err: err}
	}

	if series.Ticker == "" {
		series.Ticker = request.Ticker
		series.Interval = request.Interval
	}

	return fetchOutcome{Series: series, Err: nil}
}

func outcomeOf(result Result) string {
	switch {
	case result.FellBack:
		return OutcomeFallback
	case result.UsedCache:
		return OutcomeCache
	default:
		return OutcomeFetched
	}
}
