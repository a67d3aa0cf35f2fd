package indicator

import (
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

// StochasticOscillator adds the %K and %D columns.
type StochasticOscillator struct {
	kPeriod int
	dPeriod int
}

// NewStochasticOscillator creates a new stochastic oscillator with default configuration.
func NewStochasticOscillator() Indicator {
	return &StochasticOscillator{
		kPeriod: 14,
		dPeriod: 3,
	}
}

// Name returns the name of the indicator.
func (s *StochasticOscillator) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOscillator
}

// Config configures the oscillator. Expected parameters: kPeriod (int), dPeriod (int).
func (s *StochasticOscillator) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: kPeriod (int), dPeriod (int)")
	}

	kPeriod, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for kPeriod parameter, expected int")
	}

	if kPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "kPeriod must be a positive integer, got %d", kPeriod)
	}

	dPeriod, ok := params[1].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for dPeriod parameter, expected int")
	}

	if dPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "dPeriod must be a positive integer, got %d", dPeriod)
	}

	s.kPeriod = kPeriod
	s.dPeriod = dPeriod

	return nil
}

// Columns returns the oscillator column names.
func (s *StochasticOscillator) Columns() []string {
	return []string{types.ColumnStochasticK, types.ColumnStochasticD}
}

// Apply computes %K = 100 * (close - lowest low) / (highest high - lowest low) and
// %D = mean of %K. A flat range divides by a small epsilon instead of zero.
// Undefined points are 50, as are columns whose period exceeds the series.
func (s *StochasticOscillator) Apply(series *types.Series) error {
	n := series.Len()

	if s.kPeriod > n {
		series.SetColumn(types.ColumnStochasticK, toOptions(constant(n, neutralOscillator)))
		series.SetColumn(types.ColumnStochasticD, toOptions(constant(n, neutralOscillator)))

		return nil
	}

	closes := series.Closes()
	lowest := rollingMin(series.Lows(), s.kPeriod)
	highest := rollingMax(series.Highs(), s.kPeriod)

	k := make([]float64, n)

	for i := range k {
		denominator := highest[i] - lowest[i]
		if denominator == 0 {
			denominator = divisionEpsilon
		}

		k[i] = 100 * (closes[i] - lowest[i]) / denominator
	}

	k = fillNaN(k, neutralOscillator)
	series.SetColumn(types.ColumnStochasticK, toOptions(k))

	if s.dPeriod > countValid(k) {
		series.SetColumn(types.ColumnStochasticD, toOptions(constant(n, neutralOscillator)))

		return nil
	}

	series.SetColumn(types.ColumnStochasticD, toOptions(fillNaN(rollingMean(k, s.dPeriod), neutralOscillator)))

	return nil
}
