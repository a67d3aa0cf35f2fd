package syncengine

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/types"
)

const reasonTimeLayout = "2006-01-02 15:04:05"

// ShouldPersist decides whether candidate must replace the stored series and explains why.
// An empty candidate is never persisted.
func ShouldPersist(candidate types.Series, stored optional.Option[types.Series]) (bool, []string) {
	if candidate.IsEmpty() {
		return false, nil
	}

	if stored.IsNone() || stored.Unwrap().IsEmpty() {
		return true, []string{"No valid original local data existed."}
	}

	previous := stored.Unwrap()
	reasons := []string{}

	if candidate.First().Before(previous.First()) {
		reasons = append(reasons, fmt.Sprintf("Data now starts earlier (%s vs %s).",
			candidate.First().UTC().Format(reasonTimeLayout), previous.First().UTC().Format(reasonTimeLayout)))
	}

	if candidate.Last().After(previous.Last()) {
		reasons = append(reasons, fmt.Sprintf("Data now ends later (%s vs %s).",
			candidate.Last().UTC().Format(reasonTimeLayout), previous.Last().UTC().Format(reasonTimeLayout)))
	}

	if len(reasons) == 0 && !sameBars(candidate.Bars, previous.Bars) {
		reasons = append(reasons, "Content has changed.")
	}

	return len(reasons) > 0, reasons
}

// sameBars compares bars element-wise after zone normalization. NaN equals NaN.
func sameBars(a, b []types.Bar) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !types.NormalizeTime(a[i].Time).Equal(types.NormalizeTime(b[i].Time)) {
			return false
		}

		if !sameValue(a[i].Open, b[i].Open) ||
			!sameValue(a[i].High, b[i].High) ||
			!sameValue(a[i].Low, b[i].Low) ||
			!sameValue(a[i].Close, b[i].Close) ||
			!sameValue(a[i].Volume, b[i].Volume) {
			return false
		}
	}

	return true
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}

	return a == b
}
