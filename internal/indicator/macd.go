package indicator

import (
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12, // Default fast period
		slowPeriod:   26, // Default slow period
		signalPeriod: 9,  // Default signal period
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	periods := make([]int, 3)
	names := []string{"fastPeriod", "slowPeriod", "signalPeriod"}

	for i, p := range params {
		period, ok := p.(int)
		if !ok {
			return errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int", names[i])
		}

		if period <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", names[i], period)
		}

		periods[i] = period
	}

	if periods[0] >= periods[1] {
		return errors.Newf(errors.ErrCodeInvalidParameter, "fastPeriod (%d) must be less than slowPeriod (%d)", periods[0], periods[1])
	}

	m.fastPeriod = periods[0]
	m.slowPeriod = periods[1]
	m.signalPeriod = periods[2]

	return nil
}

// Columns returns the MACD column names.
func (m *MACD) Columns() []string {
	return []string{types.ColumnMACD, types.ColumnMACDSignal, types.ColumnMACDHistogram}
}

// Apply computes MACD = EMA(fast) - EMA(slow), signal = EMA(MACD, signal) and histogram = MACD - signal.
// A slow period longer than the series leaves all three missing; a signal period longer than
// the number of MACD values leaves only signal and histogram missing.
func (m *MACD) Apply(series *types.Series) error {
	n := series.Len()

	if m.slowPeriod > n {
		series.SetColumn(types.ColumnMACD, missing(n))
		series.SetColumn(types.ColumnMACDSignal, missing(n))
		series.SetColumn(types.ColumnMACDHistogram, missing(n))

		return nil
	}

	closes := series.Closes()
	fast := ewm(closes, m.fastPeriod)
	slow := ewm(closes, m.slowPeriod)

	line := make([]float64, n)
	for i := range line {
		line[i] = fast[i] - slow[i]
	}

	series.SetColumn(types.ColumnMACD, toOptions(line))

	if m.signalPeriod > countValid(line) {
		series.SetColumn(types.ColumnMACDSignal, missing(n))
		series.SetColumn(types.ColumnMACDHistogram, missing(n))

		return nil
	}

	signal := ewm(line, m.signalPeriod)

	histogram := make([]float64, n)
	for i := range histogram {
		histogram[i] = line[i] - signal[i]
	}

	series.SetColumn(types.ColumnMACDSignal, toOptions(signal))
	series.SetColumn(types.ColumnMACDHistogram, toOptions(histogram))

	return nil
}
