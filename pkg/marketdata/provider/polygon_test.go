package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator    PolygonAggsIterator
	lastParams  *models.ListAggsParams
	details     *models.GetTickerDetailsResponse
	detailsErr  error
	detailsCall int
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params
	return m.iterator
}

func (m *mockPolygonAPIClient) GetTickerDetails(_ context.Context, _ *models.GetTickerDetailsParams, _ ...models.RequestOption) (*models.GetTickerDetailsResponse, error) {
	m.detailsCall++
	return m.details, m.detailsErr
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
	newYork *time.Location
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) SetupSuite() {
	loc, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)
	suite.newYork = loc
}

func (suite *PolygonClientTestSuite) agg(day int, closePrice float64) models.Agg {
	return models.Agg{
		Timestamp: models.Millis(time.Date(2024, time.January, day, 0, 0, 0, 0, suite.newYork)),
		Open:      closePrice - 1,
		High:      closePrice + 1,
		Low:       closePrice - 2,
		Close:     closePrice,
		Volume:    1000000,
	}
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_ValidApiKey() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)
	suite.NotNil(client)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
	suite.Equal("polygon", client.Name())
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataSuccess() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: []models.Agg{
		suite.agg(2, 100),
		suite.agg(3, 101),
		suite.agg(4, 102),
	}}}
	client := NewPolygonClientWithAPI(mockAPI)

	series, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.IntervalDaily)
	suite.Require().NoError(err)
	suite.Equal("AAPL", series.Ticker)
	suite.Equal(types.IntervalDaily, series.Interval)
	suite.Require().Len(series.Bars, 3)

	// Session dates in New York become zone-free dates.
	suite.Equal(types.Date(2024, 1, 2), series.Bars[0].Time)
	suite.Equal(types.Date(2024, 1, 4), series.Bars[2].Time)
	suite.Equal(101.0, series.Bars[1].Close)

	suite.Require().NotNil(mockAPI.lastParams)
	suite.Equal("AAPL", mockAPI.lastParams.Ticker)
	suite.Equal(models.Day, mockAPI.lastParams.Timespan)
	suite.Equal(1, mockAPI.lastParams.Multiplier)
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataWeeklyTimespan() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}
	client := NewPolygonClientWithAPI(mockAPI)

	_, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.IntervalWeekly)
	suite.Require().NoError(err)
	suite.Equal(models.Week, mockAPI.lastParams.Timespan)
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataEmpty() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{}})

	series, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.IntervalDaily)
	suite.NoError(err)
	suite.True(series.IsEmpty())
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataIteratorError() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{
		aggs: []models.Agg{suite.agg(2, 100)},
		err:  errors.New("rate limited"),
	}})

	series, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.IntervalDaily)
	suite.Error(err)
	suite.Contains(err.Error(), "rate limited")
	suite.True(series.IsEmpty())
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataDropsOutOfRangeBars() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: []models.Agg{
		suite.agg(2, 100),
		suite.agg(3, 101),
		suite.agg(10, 110),
	}}})

	series, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 3), types.Date(2024, 1, 5), types.IntervalDaily)
	suite.Require().NoError(err)
	suite.Require().Len(series.Bars, 1)
	suite.Equal(types.Date(2024, 1, 3), series.Bars[0].Time)
}

func (suite *PolygonClientTestSuite) TestGetHistoricalDataUnsupportedInterval() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{}})

	_, err := client.GetHistoricalData(context.Background(), "AAPL", types.Date(2024, 1, 1), types.Date(2024, 1, 31), types.Interval("1h"))
	suite.Error(err)
	suite.Contains(err.Error(), "unsupported interval")
}

func (suite *PolygonClientTestSuite) TestGetCompanyInfo() {
	//nolint:exhaustruct // only the mapped fields matter
	mockAPI := &mockPolygonAPIClient{details: &models.GetTickerDetailsResponse{
		Results: models.Ticker{
			Name:            "Apple Inc.",
			Ticker:          "AAPL",
			CurrencyName:    "usd",
			MarketCap:       3.0e12,
			PrimaryExchange: "XNAS",
			SICDescription:  "ELECTRONIC COMPUTERS",
			HomepageURL:     "https://www.apple.com",
		},
	}}
	client := NewPolygonClientWithAPI(mockAPI)

	info := client.GetCompanyInfo(context.Background(), "AAPL")
	suite.False(info.HasError())
	suite.Equal("Apple Inc.", info.Get("longName"))
	suite.Equal("USD", info.Get("currency"))
	suite.Equal(3.0e12, info.Get("marketCap"))
	suite.Equal("ELECTRONIC COMPUTERS", info.Get("industry"))
	suite.Nil(info.Get("fullTimeEmployees"))
}

func (suite *PolygonClientTestSuite) TestGetCompanyInfoError() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{detailsErr: errors.New("not found")})

	info := client.GetCompanyInfo(context.Background(), "ZZZZ")
	suite.True(info.HasError())
	suite.Equal("Could not retrieve company info for ZZZZ: not found", info.Error)
}

func (suite *PolygonClientTestSuite) TestGetCompanyInfoNotSubstantial() {
	//nolint:exhaustruct // empty details
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{details: &models.GetTickerDetailsResponse{}})

	info := client.GetCompanyInfo(context.Background(), "ZZZZ")
	suite.True(info.HasError())
	suite.Equal("No substantial company information found for ZZZZ.", info.Error)
}
