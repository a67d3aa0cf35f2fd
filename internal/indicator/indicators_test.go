package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorsTestSuite struct {
	suite.Suite
}

func TestIndicatorsSuite(t *testing.T) {
	suite.Run(t, new(IndicatorsTestSuite))
}

func seriesOf(closes ...float64) types.Series {
	series := types.NewSeries("TEST", types.IntervalDaily)

	for i, c := range closes {
		series.Bars = append(series.Bars, types.Bar{
			Time:   types.Date(2024, time.January, 1).AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		})
	}

	return series
}

func (suite *IndicatorsTestSuite) column(series types.Series, name string) []optional.Option[float64] {
	column, ok := series.Column(name)
	suite.Require().True(ok, "column %s not found", name)
	suite.Require().Len(column.Values, series.Len())

	return column.Values
}

func (suite *IndicatorsTestSuite) assertColumn(expected []optional.Option[float64], actual []optional.Option[float64]) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if expected[i].IsNone() {
			suite.True(actual[i].IsNone(), "index %d: expected missing", i)

			continue
		}

		suite.Require().True(actual[i].IsSome(), "index %d: expected a value", i)
		suite.InDelta(expected[i].Unwrap(), actual[i].Unwrap(), 1e-3, "index %d", i)
	}
}

func some(values ...float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	for i, v := range values {
		out[i] = optional.Some(v)
	}

	return out
}

func (suite *IndicatorsTestSuite) TestSMA() {
	sma := NewSMA()
	suite.Require().NoError(sma.Config(2, 5))

	series := seriesOf(1, 2, 3, 4)
	suite.Require().NoError(sma.Apply(&series))

	suite.Equal([]string{"SMA_2", "SMA_5"}, series.ColumnNames())
	suite.assertColumn(some(1, 1.5, 2.5, 3.5), suite.column(series, "SMA_2"))
	suite.assertColumn(missing(4), suite.column(series, "SMA_5"))
}

func (suite *IndicatorsTestSuite) TestSMADefaultWindowsOnShortSeries() {
	series := seriesOf(make([]float64, 50)...)
	suite.Require().NoError(NewSMA().Apply(&series))

	suite.Equal([]string{"SMA_10", "SMA_20", "SMA_50", "SMA_100", "SMA_200"}, series.ColumnNames())

	for _, v := range suite.column(series, "SMA_200") {
		suite.True(v.IsNone())
	}

	for _, v := range suite.column(series, "SMA_50") {
		suite.True(v.IsSome())
	}
}

func (suite *IndicatorsTestSuite) TestBollingerBands() {
	bb := NewBollingerBands()
	suite.Require().NoError(bb.Config(3, 2.0))

	series := seriesOf(1, 2, 3, 4)
	suite.Require().NoError(bb.Apply(&series))

	none := optional.None[float64]()
	suite.assertColumn(some(1, 1.5, 2, 3), suite.column(series, types.ColumnBollingerMiddle))
	suite.assertColumn([]optional.Option[float64]{none, optional.Some(2.9142), optional.Some(4.0), optional.Some(5.0)},
		suite.column(series, types.ColumnBollingerUpper))
	suite.assertColumn([]optional.Option[float64]{none, optional.Some(0.0858), optional.Some(0.0), optional.Some(1.0)},
		suite.column(series, types.ColumnBollingerLower))
}

func (suite *IndicatorsTestSuite) TestBollingerBandsPeriodTooLong() {
	series := seriesOf(1, 2, 3)
	suite.Require().NoError(NewBollingerBands().Apply(&series))

	for _, name := range []string{types.ColumnBollingerMiddle, types.ColumnBollingerUpper, types.ColumnBollingerLower} {
		suite.assertColumn(missing(3), suite.column(series, name))
	}
}

func (suite *IndicatorsTestSuite) TestMACD() {
	macd := NewMACD()
	suite.Require().NoError(macd.Config(2, 3, 2))

	series := seriesOf(1, 2, 3)
	suite.Require().NoError(macd.Apply(&series))

	// fast alpha 2/3: 1, 1.6667, 2.5556; slow alpha 1/2: 1, 1.5, 2.25
	line := []float64{0, 1.0 / 6, 2.5556 - 2.25}
	suite.assertColumn(some(line...), suite.column(series, types.ColumnMACD))

	signal := ewm(line, 2)
	suite.assertColumn(some(signal...), suite.column(series, types.ColumnMACDSignal))
	suite.assertColumn(some(line[0]-signal[0], line[1]-signal[1], line[2]-signal[2]),
		suite.column(series, types.ColumnMACDHistogram))
}

func (suite *IndicatorsTestSuite) TestMACDShortSeries() {
	tests := []struct {
		name          string
		params        []any
		bars          int
		lineMissing   bool
		signalMissing bool
	}{
		{name: "slow period longer than series", params: []any{12, 26, 9}, bars: 20, lineMissing: true, signalMissing: true},
		{name: "signal period longer than series", params: []any{2, 3, 9}, bars: 5, lineMissing: false, signalMissing: true},
		{name: "enough data", params: []any{2, 3, 2}, bars: 5, lineMissing: false, signalMissing: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			macd := NewMACD()
			suite.Require().NoError(macd.Config(tc.params...))

			series := seriesOf(make([]float64, tc.bars)...)
			suite.Require().NoError(macd.Apply(&series))

			suite.Equal(tc.lineMissing, suite.column(series, types.ColumnMACD)[0].IsNone())
			suite.Equal(tc.signalMissing, suite.column(series, types.ColumnMACDSignal)[0].IsNone())
			suite.Equal(tc.signalMissing, suite.column(series, types.ColumnMACDHistogram)[0].IsNone())
		})
	}
}

func (suite *IndicatorsTestSuite) TestMACDConfig() {
	macd := NewMACD()

	err := macd.Config(26, 12, 9)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))

	err = macd.Config(12, 26)
	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(err))

	err = macd.Config(12, "26", 9)
	suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(err))

	err = macd.Config(0, 26, 9)
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(err))
}

func (suite *IndicatorsTestSuite) TestRSI() {
	rsi := NewRSI()
	suite.Require().NoError(rsi.Config(2))

	series := seriesOf(10, 11, 10, 12)
	suite.Require().NoError(rsi.Apply(&series))

	suite.assertColumn(some(50, 100, 50, 66.667), suite.column(series, types.ColumnRSI))
}

func (suite *IndicatorsTestSuite) TestRSIPeriodNotShorterThanSeries() {
	series := seriesOf(10, 11, 12)
	suite.Require().NoError(NewRSI().Apply(&series))

	suite.assertColumn(some(50, 50, 50), suite.column(series, types.ColumnRSI))
}

func (suite *IndicatorsTestSuite) TestRSIBounds() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
	}

	series := seriesOf(closes...)
	suite.Require().NoError(NewRSI().Apply(&series))

	for i, v := range suite.column(series, types.ColumnRSI) {
		suite.Require().True(v.IsSome())
		suite.GreaterOrEqual(v.Unwrap(), 0.0, "index %d", i)
		suite.LessOrEqual(v.Unwrap(), 100.0, "index %d", i)
	}
}

func (suite *IndicatorsTestSuite) TestStochasticOscillator() {
	stoch := NewStochasticOscillator()
	suite.Require().NoError(stoch.Config(3, 2))

	series := seriesOf(9, 11, 10, 12)
	highs := []float64{10, 12, 11, 13}
	lows := []float64{8, 9, 7, 10}

	for i := range series.Bars {
		series.Bars[i].High = highs[i]
		series.Bars[i].Low = lows[i]
	}

	suite.Require().NoError(stoch.Apply(&series))

	suite.assertColumn(some(50, 75, 60, 83.333), suite.column(series, types.ColumnStochasticK))
	suite.assertColumn(some(50, 62.5, 67.5, 71.667), suite.column(series, types.ColumnStochasticD))
}

func (suite *IndicatorsTestSuite) TestStochasticOscillatorFlatRange() {
	series := seriesOf(5, 5, 5, 5, 5)
	stoch := NewStochasticOscillator()
	suite.Require().NoError(stoch.Config(3, 2))
	suite.Require().NoError(stoch.Apply(&series))

	for _, v := range suite.column(series, types.ColumnStochasticK) {
		suite.Require().True(v.IsSome())
		suite.False(math.IsInf(v.Unwrap(), 0))
		suite.InDelta(0.0, v.Unwrap(), 1e-9)
	}
}

func (suite *IndicatorsTestSuite) TestStochasticOscillatorShortSeries() {
	series := seriesOf(1, 2, 3)
	suite.Require().NoError(NewStochasticOscillator().Apply(&series))

	suite.assertColumn(some(50, 50, 50), suite.column(series, types.ColumnStochasticK))
	suite.assertColumn(some(50, 50, 50), suite.column(series, types.ColumnStochasticD))
}

func (suite *IndicatorsTestSuite) TestVolatility() {
	series := seriesOf(100, 110, 99)
	suite.Require().NoError(NewVolatility().Apply(&series))

	r1 := math.Log(110.0 / 100.0)
	r2 := math.Log(99.0 / 110.0)
	mean := (r1 + r2) / 2
	std := math.Sqrt((r1-mean)*(r1-mean) + (r2-mean)*(r2-mean))
	expected := std * math.Sqrt(252) * 100

	suite.assertColumn(some(expected, expected, expected), suite.column(series, types.ColumnVolatility))
}

func (suite *IndicatorsTestSuite) TestVolatilityNotEnoughReturns() {
	series := seriesOf(100, 110)
	suite.Require().NoError(NewVolatility().Apply(&series))

	suite.assertColumn(missing(2), suite.column(series, types.ColumnVolatility))
	suite.True(math.IsNaN(RealizedVolatility(nil, 252)))
}

func (suite *IndicatorsTestSuite) TestConfigValidation() {
	tests := []struct {
		name      string
		indicator Indicator
		params    []any
		code      errors.ErrorCode
	}{
		{name: "sma without windows", indicator: NewSMA(), params: nil, code: errors.ErrCodeMissingParameter},
		{name: "sma negative window", indicator: NewSMA(), params: []any{-1}, code: errors.ErrCodeInvalidPeriod},
		{name: "bollinger wrong multiplier type", indicator: NewBollingerBands(), params: []any{20, 2}, code: errors.ErrCodeInvalidType},
		{name: "bollinger zero multiplier", indicator: NewBollingerBands(), params: []any{20, 0.0}, code: errors.ErrCodeInvalidParameter},
		{name: "rsi string period", indicator: NewRSI(), params: []any{"14"}, code: errors.ErrCodeInvalidType},
		{name: "stochastic zero d", indicator: NewStochasticOscillator(), params: []any{14, 0}, code: errors.ErrCodeInvalidPeriod},
		{name: "volatility missing", indicator: NewVolatility(), params: nil, code: errors.ErrCodeMissingParameter},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := tc.indicator.Config(tc.params...)
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *IndicatorsTestSuite) TestEmptySeries() {
	for _, ind := range DefaultIndicators() {
		series := types.NewSeries("EMPTY", types.IntervalDaily)
		suite.Require().NoError(ind.Apply(&series), string(ind.Name()))

		for _, c := range series.Columns {
			suite.Empty(c.Values, c.Name)
		}
	}
}
