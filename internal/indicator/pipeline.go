package indicator

import (
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"go.uber.org/zap"
)

// Pipeline applies the registered indicators to a copy of a series, in registration order.
type Pipeline struct {
	registry IndicatorRegistry
	logger   *logger.Logger
}

// NewPipeline creates a pipeline over an existing registry.
func NewPipeline(registry IndicatorRegistry, log *logger.Logger) *Pipeline {
	return &Pipeline{
		registry: registry,
		logger:   log,
	}
}

// NewDefaultPipeline creates the chart pipeline: SMA 10/20/50/100/200, Bollinger(20, 2),
// MACD(12, 26, 9), RSI(14), stochastic(14, 3) and volatility.
func NewDefaultPipeline(log *logger.Logger) *Pipeline {
	registry := NewIndicatorRegistry()

	for _, ind := range DefaultIndicators() {
		// Names are distinct, so registration cannot fail.
		_ = registry.RegisterIndicator(ind)
	}

	return NewPipeline(registry, log)
}

// DefaultIndicators returns fresh instances of the chart indicators in computation order.
func DefaultIndicators() []Indicator {
	return []Indicator{
		NewSMA(),
		NewBollingerBands(),
		NewMACD(),
		NewRSI(),
		NewStochasticOscillator(),
		NewVolatility(),
	}
}

// Registry returns the pipeline registry.
func (p *Pipeline) Registry() IndicatorRegistry {
	return p.registry
}

// Compute returns the series augmented with every indicator column.
// The input is not modified; rows are never removed or reordered.
func (p *Pipeline) Compute(series types.Series) (types.Series, error) {
	out := series.Clone()

	for _, name := range p.registry.ListIndicators() {
		ind, err := p.registry.GetIndicator(name)
		if err != nil {
			return series, err
		}

		if err := ind.Apply(&out); err != nil {
			return series, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to compute %s for %s", name, series.Ticker)
		}
	}

	for _, column := range out.Columns {
		if len(column.Values) != out.Len() {
			return series, errors.Newf(errors.ErrCodeIndicatorCalculation, "column %s has %d values for %d bars", column.Name, len(column.Values), out.Len())
		}
	}

	p.logger.Debug("Computed indicators",
		zap.String("ticker", series.Ticker),
		zap.String("interval", series.Interval.String()),
		zap.Int("rows", out.Len()),
		zap.Int("columns", len(out.Columns)),
	)

	return out, nil
}
