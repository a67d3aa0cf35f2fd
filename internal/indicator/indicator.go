package indicator

import (
	"github.com/rxtech-lab/argo-charts/internal/types"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config configures the indicator parameters
	Config(params ...any) error
	// Apply adds the indicator columns to the series in place.
	// Existing rows are never removed or reordered.
	Apply(series *types.Series) error
}

// Columns lists the column names an indicator writes, for indicators that know them up front.
type Columns interface {
	Columns() []string
}
