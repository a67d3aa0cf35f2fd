package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/types"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderYahoo   ProviderType = "yahoo"
	ProviderBinance ProviderType = "binance"
)

// Provider is the remote source of price history and company fundamentals.
type Provider interface {
	// Name returns the provider type name.
	Name() string
	// GetHistoricalData returns the bars of ticker between start and end, both inclusive dates.
	// An empty series with a nil error means the provider has no data for the range.
	// A non-nil error means the request itself failed.
	// Returned timestamps are zone-free calendar dates.
	// example:
	// GetHistoricalData(ctx, "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.IntervalDaily)
	GetHistoricalData(ctx context.Context, ticker string, start time.Time, end time.Time, interval types.Interval) (types.Series, error)
	// GetCompanyInfo returns the fundamentals of ticker.
	// Failures are reported through CompanyInfo.Error, never as a Go error.
	GetCompanyInfo(ctx context.Context, ticker string) types.CompanyInfo
}

// Options carries the settings needed to construct any provider.
type Options struct {
	PolygonApiKey string
	YahooBaseURL  string
	Timeout       time.Duration
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, options Options) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		return NewPolygonClient(options.PolygonApiKey)
	case ProviderYahoo:
		return NewYahooClient(options.YahooBaseURL, options.Timeout)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}

// ParseProviderType validates a provider name.
func ParseProviderType(name string) (ProviderType, error) {
	switch ProviderType(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderPolygon:
		return ProviderPolygon, nil
	case ProviderYahoo:
		return ProviderYahoo, nil
	case ProviderBinance:
		return ProviderBinance, nil
	default:
		return "", fmt.Errorf("unsupported market data provider: %s", name)
	}
}

// endOfDay returns the last instant of the calendar date of t.
func endOfDay(t time.Time) time.Time {
	return types.DateOf(t).Add(24*time.Hour - time.Millisecond)
}

// emptySeries is the "no data" result of a historical data request.
func emptySeries(ticker string, interval types.Interval) types.Series {
	return types.NewSeries(ticker, interval)
}

// keepInRange drops bars outside [start, end] by calendar date and sorts
// them, keeping the last bar of any duplicated date.
func keepInRange(bars []types.Bar, start time.Time, end time.Time) []types.Bar {
	from := types.DateOf(start)
	to := types.DateOf(end)

	byDate := make(map[time.Time]int, len(bars))
	out := make([]types.Bar, 0, len(bars))

	for _, b := range bars {
		day := types.DateOf(b.Time)
		if day.Before(from) || day.After(to) {
			continue
		}

		b.Time = day

		if idx, ok := byDate[day]; ok {
			out[idx] = b

			continue
		}

		byDate[day] = len(out)
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	return out
}
