package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-charts/internal/types"
)

// DefaultYahooBaseURL is the public chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

const yahooChartPath = "/v8/finance/chart/{symbol}"

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooMeta struct {
	Currency             string   `json:"currency"`
	Symbol               string   `json:"symbol"`
	ExchangeName         string   `json:"exchangeName"`
	FullExchangeName     string   `json:"fullExchangeName"`
	InstrumentType       string   `json:"instrumentType"`
	LongName             string   `json:"longName"`
	ShortName            string   `json:"shortName"`
	GMTOffset            int64    `json:"gmtoffset"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	PreviousClose        *float64 `json:"previousClose"`
	FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
}

// YahooClient reads the credential-free chart API.
type YahooClient struct {
	client *resty.Client
}

// NewYahooClient creates a chart API provider. An empty baseURL uses the public host.
func NewYahooClient(baseURL string, timeout time.Duration) (Provider, error) {
	return NewYahooClientWithResty(resty.New(), baseURL, timeout), nil
}

// NewYahooClientWithResty creates a provider on an existing resty client.
func NewYahooClientWithResty(client *resty.Client, baseURL string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept", "application/json")

	return &YahooClient{client: client}
}

func (c *YahooClient) Name() string {
	return string(ProviderYahoo)
}

// GetHistoricalData requests split-adjusted bars between the two dates.
// Bars with no close (holidays) are skipped.
func (c *YahooClient) GetHistoricalData(ctx context.Context, ticker string, start time.Time, end time.Time, interval types.Interval) (types.Series, error) {
	if !interval.Valid() {
		return emptySeries(ticker, interval), fmt.Errorf("unsupported interval for Yahoo: %s", interval)
	}

	chart, found, err := c.fetchChart(ctx, ticker, map[string]string{
		"period1":  strconv.FormatInt(types.DateOf(start).Unix(), 10),
		"period2":  strconv.FormatInt(types.DateOf(end).AddDate(0, 0, 1).Unix(), 10),
		"interval": string(interval),
		"events":   "div,splits",
	})
	if err != nil {
		return emptySeries(ticker, interval), err
	}

	series := emptySeries(ticker, interval)
	if !found {
		return series, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := result.Indicators.Quote[0]
	offset := time.Duration(result.Meta.GMTOffset) * time.Second
	bars := make([]types.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		closePrice := valueAt(quote.Close, i)
		if closePrice == nil {
			continue
		}

		// Exchange-local calendar date of the session.
		local := time.Unix(ts, 0).UTC().Add(offset)

		bars = append(bars, types.Bar{
			Time:   types.DateOf(local),
			Open:   derefOr(valueAt(quote.Open, i), *closePrice),
			High:   derefOr(valueAt(quote.High, i), *closePrice),
			Low:    derefOr(valueAt(quote.Low, i), *closePrice),
			Close:  *closePrice,
			Volume: derefOr(valueAt(quote.Volume, i), 0),
		})
	}

	series.Bars = keepInRange(bars, start, end)

	return series, nil
}

// GetCompanyInfo maps the chart metadata onto the display keys.
func (c *YahooClient) GetCompanyInfo(ctx context.Context, ticker string) types.CompanyInfo {
	chart, found, err := c.fetchChart(ctx, ticker, map[string]string{
		"range":    "5d",
		"interval": "1d",
	})
	if err != nil {
		return types.NewCompanyInfoError(ticker, "Could not retrieve company info for %s: %v", ticker, err)
	}

	if !found {
		return types.NewCompanyInfoError(ticker, "No substantial company information found for %s.", ticker)
	}

	meta := chart.Chart.Result[0].Meta
	fields := map[string]any{}

	putString(fields, "symbol", meta.Symbol)
	putString(fields, "currency", meta.Currency)
	putString(fields, "exchange", meta.ExchangeName)
	putString(fields, "fullExchangeName", meta.FullExchangeName)
	putString(fields, "quoteType", meta.InstrumentType)
	putString(fields, "longName", meta.LongName)
	putString(fields, "shortName", meta.ShortName)
	putFloat(fields, "regularMarketPrice", meta.RegularMarketPrice)
	putFloat(fields, "fiftyTwoWeekHigh", meta.FiftyTwoWeekHigh)
	putFloat(fields, "fiftyTwoWeekLow", meta.FiftyTwoWeekLow)
	putFloat(fields, "dayHigh", meta.RegularMarketDayHigh)
	putFloat(fields, "dayLow", meta.RegularMarketDayLow)
	putFloat(fields, "volume", meta.RegularMarketVolume)

	if meta.PreviousClose != nil {
		putFloat(fields, "previousClose", meta.PreviousClose)
	} else {
		putFloat(fields, "previousClose", meta.ChartPreviousClose)
	}

	info := types.CompanyInfo{Ticker: ticker, Fields: fields, Error: ""}
	if !info.IsSubstantial() {
		return types.NewCompanyInfoError(ticker, "No substantial company information found for %s.", ticker)
	}

	return info
}

// fetchChart returns found=false when the API reports an unknown symbol or an empty result.
func (c *YahooClient) fetchChart(ctx context.Context, ticker string, query map[string]string) (yahooChart, bool, error) {
	var chart yahooChart

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(query).
		Get(yahooChartPath)
	if err != nil {
		return chart, false, fmt.Errorf("yahoo fetch: %w", err)
	}

	if decodeErr := json.Unmarshal(resp.Body(), &chart); decodeErr != nil {
		if resp.StatusCode() != http.StatusOK {
			return chart, false, fmt.Errorf("yahoo: status %d", resp.StatusCode())
		}

		return chart, false, fmt.Errorf("yahoo decode: %w", decodeErr)
	}

	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return chart, false, nil
		}

		return chart, false, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}

	if resp.StatusCode() != http.StatusOK {
		return chart, false, fmt.Errorf("yahoo: status %d", resp.StatusCode())
	}

	if len(chart.Chart.Result) == 0 {
		return chart, false, nil
	}

	return chart, true, nil
}

func valueAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

func derefOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}

	return *v
}

func putFloat(fields map[string]any, key string, value *float64) {
	if value != nil {
		fields[key] = *value
	}
}
