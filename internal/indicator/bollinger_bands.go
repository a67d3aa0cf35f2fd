package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

// BollingerBands adds the middle, upper and lower band columns.
type BollingerBands struct {
	period     int
	stdDevMult float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period:     20,
		stdDevMult: 2.0,
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the indicator. Expected parameters: period (int), stdDevMult (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDevMult (float64)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	stdDevMult, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDevMult parameter, expected float64")
	}

	if stdDevMult <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "stdDevMult must be a positive number, got %f", stdDevMult)
	}

	bb.period = period
	bb.stdDevMult = stdDevMult

	return nil
}

// Columns returns the band column names.
func (bb *BollingerBands) Columns() []string {
	return []string{types.ColumnBollingerMiddle, types.ColumnBollingerUpper, types.ColumnBollingerLower}
}

// Apply computes middle = mean, upper/lower = middle +- k * sample std over the period.
// The first point has no deviation, so its upper and lower bands are missing.
func (bb *BollingerBands) Apply(series *types.Series) error {
	n := series.Len()

	if bb.period > n {
		series.SetColumn(types.ColumnBollingerMiddle, missing(n))
		series.SetColumn(types.ColumnBollingerUpper, missing(n))
		series.SetColumn(types.ColumnBollingerLower, missing(n))

		return nil
	}

	closes := series.Closes()
	middle := rollingMean(closes, bb.period)
	std := rollingStd(closes, bb.period)

	upper := make([]float64, n)
	lower := make([]float64, n)

	for i := range middle {
		if math.IsNaN(std[i]) {
			upper[i], lower[i] = math.NaN(), math.NaN()

			continue
		}

		width := bb.stdDevMult * std[i]
		upper[i] = middle[i] + width
		lower[i] = middle[i] - width
	}

	series.SetColumn(types.ColumnBollingerMiddle, toOptions(middle))
	series.SetColumn(types.ColumnBollingerUpper, toOptions(upper))
	series.SetColumn(types.ColumnBollingerLower, toOptions(lower))

	return nil
}
