package syncengine

import (
	"sort"

	"github.com/rxtech-lab/argo-charts/internal/types"
)

// Merge combines base and fetched rows into one series sorted by time.
// For equal timestamps the fetched row wins. An empty fetched series returns base unchanged.
func Merge(base, fetched types.Series) types.Series {
	if fetched.IsEmpty() {
		return base
	}

	bars := make([]types.Bar, 0, base.Len()+fetched.Len())
	bars = append(bars, base.Bars...)
	bars = append(bars, fetched.Bars...)

	for i := range bars {
		bars[i].Time = types.NormalizeTime(bars[i].Time)
	}

	// stable, so equal timestamps keep base-before-fetched order
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	merged := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if n := len(merged); n > 0 && merged[n-1].Time.Equal(bar.Time) {
			merged[n-1] = bar

			continue
		}

		merged = append(merged, bar)
	}

	key := base
	if key.Ticker == "" {
		key = fetched
	}

	return key.WithBars(merged)
}
