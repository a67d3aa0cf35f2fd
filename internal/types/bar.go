package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Bar is one OHLCV sample of a price series.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IndicatorColumn is a named column aligned 1:1 with the bars of a Series.
// A None value marks a point where the indicator is not computable.
type IndicatorColumn struct {
	Name   string
	Values []optional.Option[float64]
}

// Series is an ordered sequence of bars for one ticker and interval,
// plus zero or more indicator columns.
type Series struct {
	Ticker   string
	Interval Interval
	Bars     []Bar
	Columns  []IndicatorColumn
}

// NewSeries creates an empty series for the given key.
func NewSeries(ticker string, interval Interval) Series {
	return Series{
		Ticker:   ticker,
		Interval: interval,
		Bars:     []Bar{},
		Columns:  nil,
	}
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.Bars)
}

// IsEmpty reports whether the series holds no bars.
func (s Series) IsEmpty() bool {
	return len(s.Bars) == 0
}

// First returns the earliest timestamp. It returns the zero time for an empty series.
func (s Series) First() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}

	return s.Bars[0].Time
}

// Last returns the latest timestamp. It returns the zero time for an empty series.
func (s Series) Last() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}

	return s.Bars[len(s.Bars)-1].Time
}

// Clone returns a deep copy so the caller can mutate it freely.
func (s Series) Clone() Series {
	bars := make([]Bar, len(s.Bars))
	copy(bars, s.Bars)

	var columns []IndicatorColumn
	if s.Columns != nil {
		columns = make([]IndicatorColumn, len(s.Columns))
		for i, c := range s.Columns {
			values := make([]optional.Option[float64], len(c.Values))
			copy(values, c.Values)
			columns[i] = IndicatorColumn{Name: c.Name, Values: values}
		}
	}

	return Series{
		Ticker:   s.Ticker,
		Interval: s.Interval,
		Bars:     bars,
		Columns:  columns,
	}
}

// WithBars returns a copy of the series key carrying the given bars and no indicator columns.
func (s Series) WithBars(bars []Bar) Series {
	return Series{
		Ticker:   s.Ticker,
		Interval: s.Interval,
		Bars:     bars,
		Columns:  nil,
	}
}

// Column returns the indicator column with the given name.
func (s Series) Column(name string) (IndicatorColumn, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return IndicatorColumn{}, false
}

// ColumnNames lists the indicator columns in the order they were added.
func (s Series) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}

	return names
}

// SetColumn adds or replaces an indicator column. Values must be aligned with Bars.
func (s *Series) SetColumn(name string, values []optional.Option[float64]) {
	for i, c := range s.Columns {
		if c.Name == name {
			s.Columns[i].Values = values
			return
		}
	}

	s.Columns = append(s.Columns, IndicatorColumn{Name: name, Values: values})
}

// Closes returns the close prices.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}

	return out
}

// Highs returns the high prices.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}

	return out
}

// Lows returns the low prices.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}

	return out
}

// Filter keeps the rows for which keep returns true. Indicator columns are filtered with their bars.
func (s Series) Filter(keep func(Bar) bool) Series {
	out := Series{
		Ticker:   s.Ticker,
		Interval: s.Interval,
		Bars:     make([]Bar, 0, len(s.Bars)),
		Columns:  nil,
	}

	kept := make([]int, 0, len(s.Bars))

	for i, b := range s.Bars {
		if keep(b) {
			out.Bars = append(out.Bars, b)
			kept = append(kept, i)
		}
	}

	for _, c := range s.Columns {
		values := make([]optional.Option[float64], 0, len(kept))
		for _, idx := range kept {
			values = append(values, c.Values[idx])
		}

		out.Columns = append(out.Columns, IndicatorColumn{Name: c.Name, Values: values})
	}

	return out
}

// From returns the rows at or after t.
func (s Series) From(t time.Time) Series {
	return s.Filter(func(b Bar) bool {
		return !b.Time.Before(t)
	})
}

// Before returns the rows whose calendar date is strictly before the date of t.
func (s Series) Before(t time.Time) Series {
	day := DateOf(t)

	return s.Filter(func(b Bar) bool {
		return DateOf(b.Time).Before(day)
	})
}
