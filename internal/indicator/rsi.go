package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

const (
	// neutralOscillator is the value used where an oscillator is undefined.
	neutralOscillator = 50.0
	// divisionEpsilon replaces a zero denominator.
	divisionEpsilon = 1e-9
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Columns returns the RSI column name.
func (r *RSI) Columns() []string {
	return []string{types.ColumnRSI}
}

// Apply computes RSI from the partial-window means of gains and losses.
// A zero mean loss is replaced by a small epsilon. Undefined points, including the
// first one, are 50; a period not shorter than the series yields 50 everywhere.
func (r *RSI) Apply(series *types.Series) error {
	n := series.Len()

	if r.period >= n {
		series.SetColumn(types.ColumnRSI, toOptions(constant(n, neutralOscillator)))

		return nil
	}

	delta := diff(series.Closes())
	gains := make([]float64, n)
	losses := make([]float64, n)

	for i, d := range delta {
		if math.IsNaN(d) {
			gains[i], losses[i] = math.NaN(), math.NaN()

			continue
		}

		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	avgGain := rollingMean(gains, r.period)
	avgLoss := rollingMean(losses, r.period)

	rsi := make([]float64, n)

	for i := range rsi {
		loss := avgLoss[i]
		if loss == 0 {
			loss = divisionEpsilon
		}

		rs := avgGain[i] / loss
		rsi[i] = 100 - 100/(1+rs)
	}

	series.SetColumn(types.ColumnRSI, toOptions(fillNaN(rsi, neutralOscillator)))

	return nil
}
