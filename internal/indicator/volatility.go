package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

// Volatility adds the annualized realized volatility in percent, one value replicated on every row.
type Volatility struct {
	periodsPerYear int
}

// NewVolatility creates a volatility indicator annualized over 252 trading days.
func NewVolatility() Indicator {
	return &Volatility{
		periodsPerYear: 252,
	}
}

// Name returns the name of the indicator.
func (v *Volatility) Name() types.IndicatorType {
	return types.IndicatorTypeVolatility
}

// Config configures the annualization factor. Expected parameters: periodsPerYear (int).
func (v *Volatility) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: periodsPerYear (int)")
	}

	periods, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for periodsPerYear parameter, expected int")
	}

	if periods <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "periodsPerYear must be a positive integer, got %d", periods)
	}

	v.periodsPerYear = periods

	return nil
}

// Columns returns the volatility column name.
func (v *Volatility) Columns() []string {
	return []string{types.ColumnVolatility}
}

// Apply computes the sample standard deviation of log returns times sqrt(periodsPerYear) times 100.
// Fewer than two returns leaves the column missing.
func (v *Volatility) Apply(series *types.Series) error {
	n := series.Len()
	value := RealizedVolatility(series.Closes(), v.periodsPerYear)

	series.SetColumn(types.ColumnVolatility, toOptions(constant(n, value)))

	return nil
}

// RealizedVolatility returns NaN when fewer than two valid log returns exist.
func RealizedVolatility(closes []float64, periodsPerYear int) float64 {
	returns := make([]float64, 0, len(closes))

	for i := 1; i < len(closes); i++ {
		if closes[i] <= 0 || closes[i-1] <= 0 {
			continue
		}

		r := math.Log(closes[i] / closes[i-1])
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}

		returns = append(returns, r)
	}

	if len(returns) < 2 {
		return math.NaN()
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	squares := 0.0
	for _, r := range returns {
		squares += (r - mean) * (r - mean)
	}

	std := math.Sqrt(squares / float64(len(returns)-1))

	return std * math.Sqrt(float64(periodsPerYear)) * 100
}
