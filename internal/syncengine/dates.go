package syncengine

import (
	"time"

	"github.com/rxtech-lab/argo-charts/internal/types"
)

const (
	MinDisplayYears     = 1
	MaxDisplayYears     = 20
	DefaultDisplayYears = 2

	// indicatorLeadInDays is fetched before the display start so the 200 bar average has history.
	indicatorLeadInDays = 300
	// extendedLeadInDays is added when more than two years are displayed.
	extendedLeadInDays = 365
)

// DateRange is the window requested for one ticker load.
type DateRange struct {
	Years        int       `json:"years"`
	FetchStart   time.Time `json:"fetchStart"`
	DisplayStart time.Time `json:"displayStart"`
	End          time.Time `json:"end"`
}

// ClampYears limits the display period to [MinDisplayYears, MaxDisplayYears].
func ClampYears(years int) int {
	if years < MinDisplayYears {
		return MinDisplayYears
	}

	if years > MaxDisplayYears {
		return MaxDisplayYears
	}

	return years
}

// ComputeDateRange derives the fetch and display windows for a display period ending today.
// Years are clamped; a year is 365 days.
func ComputeDateRange(years int, today time.Time) DateRange {
	years = ClampYears(years)

	end := types.DateOf(today)
	displayStart := end.AddDate(0, 0, -years*365)

	leadIn := indicatorLeadInDays
	if years > 2 {
		leadIn += extendedLeadInDays
	}

	return DateRange{
		Years:        years,
		FetchStart:   displayStart.AddDate(0, 0, -leadIn),
		DisplayStart: displayStart,
		End:          end,
	}
}

// Request builds the synchronization request of ticker and interval over the range.
func (r DateRange) Request(ticker string, interval types.Interval) Request {
	return Request{
		Ticker:       ticker,
		Interval:     interval,
		Start:        r.FetchStart,
		End:          r.End,
		DisplayStart: r.DisplayStart,
	}
}
