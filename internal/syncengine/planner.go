package syncengine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"go.uber.org/zap"
)

// FetchPlan is the outcome of planning one synchronization.
// FetchStart is None when the cache covers the request; Base is the part of the
// cache that fetched rows are merged into.
type FetchPlan struct {
	FetchStart optional.Option[time.Time]
	Base       types.Series
}

// NeedsFetch reports whether the provider must be called for [FetchStart, end].
func (p FetchPlan) NeedsFetch(end time.Time) bool {
	if p.FetchStart.IsNone() {
		return false
	}

	return !p.FetchStart.Unwrap().After(types.DateOf(end))
}

// Planner decides which date range must be fetched given the cached series.
type Planner struct {
	now    func() time.Time
	logger *logger.Logger
}

// NewPlanner creates a planner using the wall clock for "today".
func NewPlanner(log *logger.Logger) *Planner {
	return NewPlannerWithClock(time.Now, log)
}

// NewPlannerWithClock creates a planner with a custom clock.
func NewPlannerWithClock(now func() time.Time, log *logger.Logger) *Planner {
	return &Planner{
		now:    now,
		logger: log,
	}
}

// Plan computes the earliest date to fetch for a request of [start, end].
//
// A missing gap on the left (the cache starts after start) fetches from start.
// On the right, daily data ending on end has its last bar treated as provisional:
// it is dropped from the base and fetched again. Older daily data fetches from the day
// after the last cached bar. Weekly data fetches only if the ISO week of the last
// cached bar is older than the current ISO week. The earlier of both gaps wins.
func (p *Planner) Plan(ticker string, interval types.Interval, cached optional.Option[types.Series], start, end time.Time) FetchPlan {
	start = types.DateOf(start)
	end = types.DateOf(end)

	if cached.IsNone() || cached.Unwrap().IsEmpty() {
		p.logger.Info("No valid local data, planning full fetch",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)

		return FetchPlan{
			FetchStart: optional.Some(start),
			Base:       types.NewSeries(ticker, interval),
		}
	}

	local := cached.Unwrap()
	base := local
	first := types.DateOf(local.First())
	last := types.DateOf(local.Last())

	var fetchStart optional.Option[time.Time]

	if first.After(start) {
		p.logger.Info("Local data starts after requested start, planning backfill",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
			zap.Time("local_start", first),
			zap.Time("start", start),
		)

		fetchStart = optional.Some(start)
	}

	var newer optional.Option[time.Time]

	switch interval {
	case types.IntervalDaily:
		switch {
		case last.Equal(end):
			p.logger.Info("Local daily data includes the last requested day, fetching it again",
				zap.String("ticker", ticker),
				zap.Time("end", end),
			)

			newer = optional.Some(end)
			base = local.Before(end)
		case last.Before(end):
			newer = optional.Some(last.AddDate(0, 0, 1))
		}
	case types.IntervalWeekly:
		if types.ISOWeekBefore(last, p.now()) {
			newer = optional.Some(last.AddDate(0, 0, 1))
		} else {
			p.logger.Debug("Local weekly data is current",
				zap.String("ticker", ticker),
				zap.Time("last", last),
			)
		}
	default:
		if last.Before(end) {
			newer = optional.Some(last.AddDate(0, 0, 1))
		}
	}

	if newer.IsSome() && (fetchStart.IsNone() || newer.Unwrap().Before(fetchStart.Unwrap())) {
		fetchStart = newer
	}

	if fetchStart.IsSome() {
		p.logger.Info("Planned fetch",
			zap.String("ticker", ticker),
			zap.String("interval", interval.String()),
			zap.Time("fetch_start", fetchStart.Unwrap()),
			zap.Time("end", end),
		)
	}

	return FetchPlan{
		FetchStart: fetchStart,
		Base:       base.WithBars(base.Bars),
	}
}
