package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-charts/internal/types"
)

// binancePageSize is the number of klines the API returns per request by default.
const binancePageSize = 500

// BinanceKlinesService is the subset of the klines service builder the client uses.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the subset of the binance client the provider uses.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceClientWrapper struct {
	client *binance.Client
}

func (w *binanceClientWrapper) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceWrapper{service: w.client.NewKlinesService()}
}

type binanceKlinesServiceWrapper struct {
	service *binance.KlinesService
}

func (w *binanceKlinesServiceWrapper) Symbol(symbol string) BinanceKlinesService {
	w.service = w.service.Symbol(symbol)

	return w
}

func (w *binanceKlinesServiceWrapper) Interval(interval string) BinanceKlinesService {
	w.service = w.service.Interval(interval)

	return w
}

func (w *binanceKlinesServiceWrapper) StartTime(startTime int64) BinanceKlinesService {
	w.service = w.service.StartTime(startTime)

	return w
}

func (w *binanceKlinesServiceWrapper) EndTime(endTime int64) BinanceKlinesService {
	w.service = w.service.EndTime(endTime)

	return w
}

func (w *binanceKlinesServiceWrapper) Do(ctx context.Context) ([]*binance.Kline, error) {
	return w.service.Do(ctx)
}

// BinanceClient serves crypto pairs from the Binance public market data API.
type BinanceClient struct {
	apiClient BinanceAPIClient
}

// NewBinanceClient creates a binance backed provider. Public market data needs no credentials.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceClientWrapper{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a provider around an existing API client.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{apiClient: apiClient}
}

func (c *BinanceClient) Name() string {
	return string(ProviderBinance)
}

// GetHistoricalData pages through klines for the range.
func (c *BinanceClient) GetHistoricalData(ctx context.Context, ticker string, start time.Time, end time.Time, interval types.Interval) (types.Series, error) {
	binanceInterval, err := binanceInterval(interval)
	if err != nil {
		return emptySeries(ticker, interval), err
	}

	symbol := BinanceSymbol(ticker)
	currentStartTime := types.DateOf(start).UnixMilli()
	endTimeMillis := endOfDay(end).UnixMilli()

	bars := make([]types.Bar, 0)

	for currentStartTime <= endTimeMillis {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(symbol).
			Interval(binanceInterval).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			return emptySeries(ticker, interval), fmt.Errorf("failed to fetch klines from Binance: %w", err)
		}

		page, err := convertKlines(klines)
		if err != nil {
			return emptySeries(ticker, interval), err
		}

		bars = append(bars, page...)

		if len(klines) < binancePageSize {
			break
		}

		// Next page starts after the close of the last kline.
		next := klines[len(klines)-1].CloseTime + 1
		if next <= currentStartTime {
			break
		}

		currentStartTime = next
	}

	series := emptySeries(ticker, interval)
	series.Bars = keepInRange(bars, start, end)

	return series, nil
}

// GetCompanyInfo is not offered by the exchange API.
func (c *BinanceClient) GetCompanyInfo(_ context.Context, ticker string) types.CompanyInfo {
	return types.NewCompanyInfoError(ticker, "No substantial company information found for %s.", ticker)
}

// BinanceSymbol maps a dashboard ticker such as BTC-USD onto the exchange pair BTCUSDT.
func BinanceSymbol(ticker string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))

	if base, quote, ok := strings.Cut(symbol, "-"); ok {
		if quote == "USD" {
			quote = "USDT"
		}

		return base + quote
	}

	return symbol
}

// convertKlines converts kline strings to bars using the open time as the bar date.
func convertKlines(klines []*binance.Kline) ([]types.Bar, error) {
	bars := make([]types.Bar, 0, len(klines))

	for _, k := range klines {
		values := make([]float64, 5)

		for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse kline value %q: %w", raw, err)
			}

			values[i] = v
		}

		bars = append(bars, types.Bar{
			Time:   types.DateOf(time.UnixMilli(k.OpenTime)),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	return bars, nil
}

// binanceInterval converts an interval to a Binance kline interval.
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func binanceInterval(interval types.Interval) (string, error) {
	switch interval {
	case types.IntervalDaily:
		return "1d", nil
	case types.IntervalWeekly:
		return "1w", nil
	default:
		return "", fmt.Errorf("unsupported interval for Binance: %s", interval)
	}
}
