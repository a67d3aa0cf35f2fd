package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minPlotBars is the shortest series a chart is drawn for.
const minPlotBars = 2

// Synchronizer brings one (ticker, interval) up to date and returns its display series.
type Synchronizer interface {
	Sync(ctx context.Context, request syncengine.Request) (syncengine.Result, error)
}

// CompanyInfoSource looks up company fundamentals. Failures are carried in CompanyInfo.Error.
type CompanyInfoSource interface {
	GetCompanyInfo(ctx context.Context, ticker string) types.CompanyInfo
}

// Panel is the chart data of one interval. Message is an inline error for this panel only.
type Panel struct {
	Interval types.Interval `json:"interval"`
	Series   types.Series   `json:"-"`
	Rows     int            `json:"rows"`
	Message  string         `json:"message,omitempty"`
}

// Payload is everything the display needs for one ticker.
// Error is set only when no chart data could be loaded at all.
type Payload struct {
	Ticker      string               `json:"ticker"`
	Generation  uint64               `json:"generation"`
	Range       syncengine.DateRange `json:"range"`
	Daily       Panel                `json:"daily"`
	Weekly      Panel                `json:"weekly"`
	CompanyInfo types.CompanyInfo    `json:"companyInfo"`
	Error       string               `json:"error,omitempty"`
}

// Failed reports whether the payload carries a load-level error.
func (p Payload) Failed() bool {
	return p.Error != ""
}

// Loader loads daily and weekly charts plus company info for a ticker.
type Loader struct {
	synchronizer Synchronizer
	info         CompanyInfoSource
	now          func() time.Time
	logger       *logger.Logger
}

// NewLoader creates a loader. now defaults to time.Now when nil.
func NewLoader(synchronizer Synchronizer, info CompanyInfoSource, now func() time.Time, log *logger.Logger) *Loader {
	if now == nil {
		now = time.Now
	}

	return &Loader{
		synchronizer: synchronizer,
		info:         info,
		now:          now,
		logger:       log,
	}
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprint(p.value)
}

// Load synchronizes both intervals and fetches company info concurrently.
// A failure of one part does not affect the others. It never panics: an unexpected
// panic becomes a payload carrying the ticker and the message.
func (l *Loader) Load(ctx context.Context, ticker string, years int) (payload Payload) {
	var dateRange syncengine.DateRange

	defer func() {
		if r := recover(); r != nil {
			payload = l.criticalPayload(ticker, dateRange, panicError{value: r})
		}
	}()

	dateRange = syncengine.ComputeDateRange(years, l.now())

	payload = Payload{
		Ticker:      ticker,
		Generation:  0,
		Range:       dateRange,
		Daily:       Panel{Interval: types.IntervalDaily, Series: types.NewSeries(ticker, types.IntervalDaily), Rows: 0, Message: ""},
		Weekly:      Panel{Interval: types.IntervalWeekly, Series: types.NewSeries(ticker, types.IntervalWeekly), Rows: 0, Message: ""},
		CompanyInfo: types.CompanyInfo{Ticker: ticker, Fields: map[string]any{}, Error: ""},
		Error:       "",
	}

	var dailyErr, weeklyErr error

	g := new(errgroup.Group)

	g.Go(guard(func() error {
		payload.Daily, dailyErr = l.loadPanel(ctx, dateRange.Request(ticker, types.IntervalDaily))

		return nil
	}))

	g.Go(guard(func() error {
		payload.Weekly, weeklyErr = l.loadPanel(ctx, dateRange.Request(ticker, types.IntervalWeekly))

		return nil
	}))

	g.Go(guard(func() error {
		payload.CompanyInfo = l.info.GetCompanyInfo(ctx, ticker)

		return nil
	}))

	if err := g.Wait(); err != nil {
		return l.criticalPayload(ticker, dateRange, err)
	}

	if payload.CompanyInfo.HasError() {
		l.logger.Warn("Company info error", zap.String("ticker", ticker), zap.String("error", payload.CompanyInfo.Error))
	}

	if payload.Daily.Series.IsEmpty() && payload.Weekly.Series.IsEmpty() {
		message := "Failed to retrieve any chart data"

		switch {
		case payload.CompanyInfo.HasError():
			message = payload.CompanyInfo.Error
		case dailyErr != nil && weeklyErr != nil:
			message = "Failed to fetch or process historical data"
		}

		payload.Error = fmt.Sprintf("%s for %s.", message, ticker)

		l.logger.Error("Failed to load ticker",
			zap.String("ticker", ticker),
			zap.String("error", payload.Error),
			zap.NamedError("daily_error", dailyErr),
			zap.NamedError("weekly_error", weeklyErr),
		)
	}

	return payload
}

func (l *Loader) loadPanel(ctx context.Context, request syncengine.Request) (Panel, error) {
	panel := Panel{
		Interval: request.Interval,
		Series:   types.NewSeries(request.Ticker, request.Interval),
		Rows:     0,
		Message:  "",
	}

	result, err := l.synchronizer.Sync(ctx, request)
	if err != nil {
		l.logger.Error("Sync failed",
			zap.String("ticker", request.Ticker),
			zap.String("interval", request.Interval.String()),
			zap.Error(err),
		)

		panel.Message = fmt.Sprintf("Could not load %s data for %s: %v", request.Interval.Label(), request.Ticker, err)

		return panel, err
	}

	plot, err := PreparePlot(result.Series)
	if err != nil {
		panel.Message = fmt.Sprintf("No %s data to display for %s.", request.Interval.Label(), request.Ticker)
		panel.Series = result.Series

		return panel, nil
	}

	panel.Series = plot
	panel.Rows = plot.Len()

	return panel, nil
}

func (l *Loader) criticalPayload(ticker string, dateRange syncengine.DateRange, err error) Payload {
	l.logger.Error("Critical error while loading ticker", zap.String("ticker", ticker), zap.Error(err))

	return Payload{
		Ticker:      ticker,
		Generation:  0,
		Range:       dateRange,
		Daily:       Panel{Interval: types.IntervalDaily, Series: types.NewSeries(ticker, types.IntervalDaily), Rows: 0, Message: ""},
		Weekly:      Panel{Interval: types.IntervalWeekly, Series: types.NewSeries(ticker, types.IntervalWeekly), Rows: 0, Message: ""},
		CompanyInfo: types.NewCompanyInfoError(ticker, "Critical background error: %v", err),
		Error:       fmt.Sprintf("A critical error occurred while processing data for %s: %v", ticker, err),
	}
}

// guard turns a panic in fn into an error so errgroup goroutines cannot crash the process.
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError{value: r}
			}
		}()

		return fn()
	}
}

// PreparePlot drops bars with a missing price and zero-fills missing volume.
// Fewer than two remaining bars cannot be plotted.
func PreparePlot(series types.Series) (types.Series, error) {
	out := series.Filter(func(b types.Bar) bool {
		return !math.IsNaN(b.Open) && !math.IsNaN(b.High) && !math.IsNaN(b.Low) && !math.IsNaN(b.Close)
	})

	for i := range out.Bars {
		if math.IsNaN(out.Bars[i].Volume) {
			out.Bars[i].Volume = 0
		}
	}

	if out.Len() < minPlotBars {
		return out, errors.NewInsufficientDataErrorf(minPlotBars, out.Len(), series.Ticker,
			"not enough data to plot %s (%s)", series.Ticker, series.Interval.Label())
	}

	return out, nil
}
