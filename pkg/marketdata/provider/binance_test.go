package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/stretchr/testify/suite"
)

// mockBinanceAPIClient implements BinanceAPIClient for testing.
type mockBinanceAPIClient struct {
	// Returns one entry per call; calls past the end return no klines.
	klinesPerCall [][]*binance.Kline
	errorsPerCall []error
	callCount     int
	symbols       []string
	intervals     []string
	starts        []int64
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &mockBinanceKlinesService{client: m}
}

type mockBinanceKlinesService struct {
	client *mockBinanceAPIClient
}

func (m *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	m.client.symbols = append(m.client.symbols, symbol)
	return m
}

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.client.intervals = append(m.client.intervals, interval)
	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.client.starts = append(m.client.starts, startTime)
	return m
}

func (m *mockBinanceKlinesService) EndTime(_ int64) BinanceKlinesService {
	return m
}

func (m *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	idx := m.client.callCount
	m.client.callCount++

	var err error
	if idx < len(m.client.errorsPerCall) {
		err = m.client.errorsPerCall[idx]
	}

	if idx < len(m.client.klinesPerCall) {
		return m.client.klinesPerCall[idx], err
	}

	return nil, err
}

func dailyKlines(from time.Time, count int) []*binance.Kline {
	klines := make([]*binance.Kline, 0, count)
	for i := 0; i < count; i++ {
		open := from.AddDate(0, 0, i)
		//nolint:exhaustruct // only OHLCV and times are read
		klines = append(klines, &binance.Kline{
			OpenTime:  open.UnixMilli(),
			CloseTime: open.Add(24*time.Hour - time.Millisecond).UnixMilli(),
			Open:      "100.0",
			High:      "110.5",
			Low:       "95.25",
			Close:     "105.0",
			Volume:    "12.5",
		})
	}
	return klines
}

type BinanceClientTestSuite struct {
	suite.Suite
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) TestNewBinanceClient() {
	client, err := NewBinanceClient()
	suite.NoError(err)
	suite.Equal("binance", client.Name())

	binanceClient, ok := client.(*BinanceClient)
	suite.True(ok)

	_, ok = binanceClient.apiClient.(*binanceClientWrapper)
	suite.True(ok, "apiClient should be a binanceClientWrapper")
}

func (suite *BinanceClientTestSuite) TestBinanceSymbol() {
	tests := []struct {
		name     string
		ticker   string
		expected string
	}{
		{name: "usd pair", ticker: "BTC-USD", expected: "BTCUSDT"},
		{name: "eur pair", ticker: "eth-eur", expected: "ETHEUR"},
		{name: "already a pair", ticker: "BTCUSDT", expected: "BTCUSDT"},
		{name: "whitespace", ticker: " sol-usd ", expected: "SOLUSDT"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, BinanceSymbol(tc.ticker))
		})
	}
}

func (suite *BinanceClientTestSuite) TestGetHistoricalDataSinglePage() {
	mockAPI := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{
		dailyKlines(types.Date(2024, 1, 1), 3),
	}}
	client := NewBinanceClientWithAPI(mockAPI)

	series, err := client.GetHistoricalData(context.Background(), "BTC-USD", types.Date(2024, 1, 1), types.Date(2024, 1, 3), types.IntervalDaily)
	suite.Require().NoError(err)
	suite.Require().Len(series.Bars, 3)
	suite.Equal("BTC-USD", series.Ticker)
	suite.Equal(types.Date(2024, 1, 1), series.Bars[0].Time)
	suite.Equal(110.5, series.Bars[0].High)
	suite.Equal(95.25, series.Bars[0].Low)
	suite.Equal(12.5, series.Bars[0].Volume)

	suite.Equal(1, mockAPI.callCount)
	suite.Equal([]string{"BTCUSDT"}, mockAPI.symbols)
	suite.Equal([]string{"1d"}, mockAPI.intervals)
}

func (suite *BinanceClientTestSuite) TestGetHistoricalDataPagination() {
	first := dailyKlines(types.Date(2022, 1, 1), binancePageSize)
	second := dailyKlines(types.Date(2022, 1, 1).AddDate(0, 0, binancePageSize), 10)
	mockAPI := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{first, second}}
	client := NewBinanceClientWithAPI(mockAPI)

	end := types.Date(2022, 1, 1).AddDate(0, 0, binancePageSize+9)
	series, err := client.GetHistoricalData(context.Background(), "BTC-USD", types.Date(2022, 1, 1), end, types.IntervalDaily)
	suite.Require().NoError(err)
	suite.Len(series.Bars, binancePageSize+10)
	suite.Equal(2, mockAPI.callCount)
	suite.Require().Len(mockAPI.starts, 2)
	suite.Equal(first[len(first)-1].CloseTime+1, mockAPI.starts[1])
}

func (suite *BinanceClientTestSuite) TestGetHistoricalDataWeekly() {
	mockAPI := &mockBinanceAPIClient{}
	client := NewBinanceClientWithAPI(mockAPI)

	series, err := client.GetHistoricalData(context.Background(), "ETH-USD", types.Date(2024, 1, 1), types.Date(2024, 3, 1), types.IntervalWeekly)
	suite.NoError(err)
	suite.True(series.IsEmpty())
	suite.Equal([]string{"1w"}, mockAPI.intervals)
}

func (suite *BinanceClientTestSuite) TestGetHistoricalDataAPIError() {
	mockAPI := &mockBinanceAPIClient{errorsPerCall: []error{errors.New("invalid symbol")}}
	client := NewBinanceClientWithAPI(mockAPI)

	series, err := client.GetHistoricalData(context.Background(), "XXX-USD", types.Date(2024, 1, 1), types.Date(2024, 1, 3), types.IntervalDaily)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to fetch klines from Binance")
	suite.True(series.IsEmpty())
}

func (suite *BinanceClientTestSuite) TestGetHistoricalDataInvalidNumber() {
	klines := dailyKlines(types.Date(2024, 1, 1), 1)
	klines[0].Close = "not-a-number"
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{klines}})

	_, err := client.GetHistoricalData(context.Background(), "BTC-USD", types.Date(2024, 1, 1), types.Date(2024, 1, 3), types.IntervalDaily)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to parse kline value")
}

func (suite *BinanceClientTestSuite) TestGetCompanyInfo() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})

	info := client.GetCompanyInfo(context.Background(), "BTC-USD")
	suite.True(info.HasError())
	suite.Contains(info.Error, "BTC-USD")
}
