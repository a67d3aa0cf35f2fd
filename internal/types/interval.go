package types

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the sampling granularity of a series.
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalWeekly Interval = "1wk"
)

// Intervals lists every supported interval in display order.
func Intervals() []Interval {
	return []Interval{IntervalDaily, IntervalWeekly}
}

// ParseInterval accepts the canonical names plus a few common aliases.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1d", "d", "day", "daily":
		return IntervalDaily, nil
	case "1wk", "1w", "wk", "w", "week", "weekly":
		return IntervalWeekly, nil
	default:
		return "", fmt.Errorf("unsupported interval: %q", s)
	}
}

// Valid reports whether the interval is one of the supported values.
func (i Interval) Valid() bool {
	return i == IntervalDaily || i == IntervalWeekly
}

// FileSuffix is the suffix used in cache file names.
func (i Interval) FileSuffix() string {
	switch i {
	case IntervalDaily:
		return "d"
	case IntervalWeekly:
		return "wk"
	default:
		return strings.ReplaceAll(string(i), "/", "_")
	}
}

// Label is the human readable name.
func (i Interval) Label() string {
	switch i {
	case IntervalDaily:
		return "Daily"
	case IntervalWeekly:
		return "Weekly"
	default:
		return string(i)
	}
}

func (i Interval) String() string {
	return string(i)
}

// NormalizeTime drops the zone of t by converting it to UTC, which is the
// zone-free representation used throughout the pipeline.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC()
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a zone-free calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ISOWeekBefore reports whether the ISO (year, week) of a is older than that of b.
func ISOWeekBefore(a, b time.Time) bool {
	ay, aw := a.UTC().ISOWeek()
	by, bw := b.UTC().ISOWeek()

	return ay < by || (ay == by && aw < bw)
}
