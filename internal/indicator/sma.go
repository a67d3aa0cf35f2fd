package indicator

import (
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
)

// DefaultSMAWindows are the moving average windows drawn on every chart.
var DefaultSMAWindows = []int{10, 20, 50, 100, 200}

// SMA adds one simple moving average column per window.
type SMA struct {
	windows []int
}

// NewSMA creates a new SMA indicator with the default windows.
func NewSMA() Indicator {
	windows := make([]int, len(DefaultSMAWindows))
	copy(windows, DefaultSMAWindows)

	return &SMA{windows: windows}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config sets the windows. Expected parameters: one or more windows (int).
func (s *SMA) Config(params ...any) error {
	if len(params) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: window (int)")
	}

	windows := make([]int, 0, len(params))

	for _, p := range params {
		window, ok := p.(int)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for window parameter, expected int")
		}

		if window <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
		}

		windows = append(windows, window)
	}

	s.windows = windows

	return nil
}

// Columns returns the column names in window order.
func (s *SMA) Columns() []string {
	names := make([]string, 0, len(s.windows))
	for _, w := range s.windows {
		names = append(names, types.ColumnSMA(w))
	}

	return names
}

// Apply computes a partial-window mean of the closes for each window.
// A window longer than the series yields an all-missing column.
func (s *SMA) Apply(series *types.Series) error {
	n := series.Len()
	closes := series.Closes()

	for _, w := range s.windows {
		if w > n {
			series.SetColumn(types.ColumnSMA(w), missing(n))

			continue
		}

		series.SetColumn(types.ColumnSMA(w), toOptions(rollingMean(closes, w)))
	}

	return nil
}
