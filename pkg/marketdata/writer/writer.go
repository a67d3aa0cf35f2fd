package writer

import (
	"github.com/rxtech-lab/argo-charts/internal/types"
)

// MarketDataWriter defines the interface for writing a bar series to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.Bar) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// WriteSeries writes every bar of the series and finalizes the writer.
// The writer must already be initialized; closing it stays with the caller.
func WriteSeries(w MarketDataWriter, series types.Series) (string, error) {
	for _, bar := range series.Bars {
		if err := w.Write(bar); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}
