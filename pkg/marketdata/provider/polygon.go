package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-charts/internal/types"
)

// PolygonAggsIterator is the subset of the polygon aggregates iterator the client uses.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon REST client the provider uses.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
	GetTickerDetails(ctx context.Context, params *models.GetTickerDetailsParams, options ...models.RequestOption) (*models.GetTickerDetailsResponse, error)
}

type polygonClientWrapper struct {
	client *polygon.Client
}

func (w *polygonClientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return w.client.ListAggs(ctx, params, options...)
}

func (w *polygonClientWrapper) GetTickerDetails(ctx context.Context, params *models.GetTickerDetailsParams, options ...models.RequestOption) (*models.GetTickerDetailsResponse, error) {
	return w.client.GetTickerDetails(ctx, params, options...)
}

// PolygonClient serves US equities from Polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
	location  *time.Location
}

// NewPolygonClient creates a polygon backed provider.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonClientWrapper{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a provider around an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		location = time.UTC
	}

	return &PolygonClient{
		apiClient: apiClient,
		location:  location,
	}
}

func (c *PolygonClient) Name() string {
	return string(ProviderPolygon)
}

// GetHistoricalData lists split-adjusted aggregates for the range.
// Aggregate timestamps mark the session start in New York and are reduced to that calendar date.
func (c *PolygonClient) GetHistoricalData(ctx context.Context, ticker string, start time.Time, end time.Time, interval types.Interval) (types.Series, error) {
	timespan, err := polygonTimespan(interval)
	if err != nil {
		return emptySeries(ticker, interval), err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   timespan,
		From:       models.Millis(types.DateOf(start)),
		To:         models.Millis(endOfDay(end)),
	}.WithAdjusted(true).WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	bars := make([]types.Bar, 0)

	for iter.Next() {
		agg := iter.Item()
		local := time.Time(agg.Timestamp).In(c.location)

		bars = append(bars, types.Bar{
			Time:   types.Date(local.Year(), local.Month(), local.Day()),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if iter.Err() != nil {
		return emptySeries(ticker, interval), fmt.Errorf("error iterating polygon aggregates: %w", iter.Err())
	}

	series := emptySeries(ticker, interval)
	series.Bars = keepInRange(bars, start, end)

	return series, nil
}

// GetCompanyInfo maps the polygon ticker details onto the display keys.
func (c *PolygonClient) GetCompanyInfo(ctx context.Context, ticker string) types.CompanyInfo {
	//nolint:exhaustruct // optional date is left unset
	resp, err := c.apiClient.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: ticker})
	if err != nil {
		return types.NewCompanyInfoError(ticker, "Could not retrieve company info for %s: %v", ticker, err)
	}

	if resp == nil {
		return types.NewCompanyInfoError(ticker, "No substantial company information found for %s.", ticker)
	}

	details := resp.Results
	fields := map[string]any{}

	putString(fields, "longName", details.Name)
	putString(fields, "symbol", details.Ticker)
	putString(fields, "longBusinessSummary", details.Description)
	putString(fields, "website", details.HomepageURL)
	putString(fields, "currency", strings.ToUpper(details.CurrencyName))
	putString(fields, "exchange", details.PrimaryExchange)
	putString(fields, "industry", details.SICDescription)
	putString(fields, "market", details.Market)
	putString(fields, "quoteType", details.Type)

	if details.MarketCap != 0 {
		fields["marketCap"] = details.MarketCap
	}

	if details.TotalEmployees != 0 {
		fields["fullTimeEmployees"] = float64(details.TotalEmployees)
	}

	info := types.CompanyInfo{Ticker: ticker, Fields: fields, Error: ""}
	if !info.IsSubstantial() {
		return types.NewCompanyInfoError(ticker, "No substantial company information found for %s.", ticker)
	}

	return info
}

func polygonTimespan(interval types.Interval) (models.Timespan, error) {
	switch interval {
	case types.IntervalDaily:
		return models.Day, nil
	case types.IntervalWeekly:
		return models.Week, nil
	default:
		return "", fmt.Errorf("unsupported interval for Polygon: %s", interval)
	}
}

func putString(fields map[string]any, key string, value string) {
	if value != "" {
		fields[key] = value
	}
}
