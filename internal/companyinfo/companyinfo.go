// Package companyinfo turns provider fundamentals into labelled display lines.
package companyinfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown for missing values.
const NotAvailable = "N/A"

type field struct {
	label string
	key   string
}

// fields is the display order.
var fields = []field{
	{label: "Sector", key: "sector"},
	{label: "Industry", key: "industry"},
	{label: "Website", key: "website"},
	{label: "Exchange", key: "fullExchangeName"},
	{label: "Currency", key: "currency"},
	{label: "Market Cap", key: "marketCap"},
	{label: "Shares Outstanding", key: "sharesOutstanding"},
	{label: "Employees", key: "fullTimeEmployees"},
	{label: "P/E Ratio", key: "trailingPE"},
	{label: "Forward P/E", key: "forwardPE"},
	{label: "EPS (TTM)", key: "trailingEps"},
	{label: "Forward EPS", key: "forwardEps"},
	{label: "Beta", key: "beta"},
	{label: "Dividend Rate", key: "dividendRate"},
	{label: "Dividend Yield", key: "dividendYield"},
	{label: "Payout Ratio", key: "payoutRatio"},
	{label: "Ex-Dividend Date", key: "exDividendDate"},
	{label: "52 Week High", key: "fiftyTwoWeekHigh"},
	{label: "52 Week Low", key: "fiftyTwoWeekLow"},
	{label: "Avg. Volume", key: "averageVolume"},
	{label: "Volume", key: "volume"},
	{label: "Current Price", key: "currentPrice"},
	{label: "Regular Market Price", key: "regularMarketPrice"},
	{label: "Open", key: "open"},
	{label: "Previous Close", key: "previousClose"},
	{label: "Day High", key: "dayHigh"},
	{label: "Day Low", key: "dayLow"},
	{label: "Earnings Date", key: "earningsTimestampStart"},
	{label: "Recommendation", key: "recommendationKey"},
}

// timestampKeys hold unix seconds and are shown as dates.
var timestampKeys = map[string]bool{
	"exDividendDate":         true,
	"earningsTimestampStart": true,
}

// Line is one labelled value.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is the rendered company info of a ticker.
type Summary struct {
	Ticker          string `json:"ticker"`
	Title           string `json:"title"`
	Lines           []Line `json:"lines"`
	BusinessSummary string `json:"businessSummary,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Summarize builds the display summary. Only fields present in info produce a line.
func Summarize(info types.CompanyInfo) Summary {
	summary := Summary{
		Ticker:          info.Ticker,
		Title:           "",
		Lines:           []Line{},
		BusinessSummary: "",
		Error:           "",
	}

	if info.HasError() {
		summary.Error = info.Error

		return summary
	}

	if len(info.Fields) == 0 {
		summary.Error = fmt.Sprintf("No company information available for %s.", info.Ticker)

		return summary
	}

	name := info.Ticker
	if longName, ok := info.Get("longName").(string); ok && longName != "" {
		name = longName
	}

	summary.Title = fmt.Sprintf("%s (%s)", name, info.Ticker)

	for _, f := range fields {
		value := info.Get(f.key)
		if value == nil {
			continue
		}

		if timestampKeys[f.key] {
			value = formatTimestamp(value)
		}

		summary.Lines = append(summary.Lines, Line{Label: f.label, Value: FormatValue(value)})
	}

	if text, ok := info.Get("longBusinessSummary").(string); ok {
		summary.BusinessSummary = text
	}

	return summary
}

// String renders the summary as plain text.
func (s Summary) String() string {
	if s.Error != "" {
		return s.Error
	}

	var b strings.Builder

	fmt.Fprintf(&b, "--- %s ---\n", s.Title)

	for _, line := range s.Lines {
		fmt.Fprintf(&b, "%s: %s\n", line.Label, line.Value)
	}

	if s.BusinessSummary != "" {
		fmt.Fprintf(&b, "\n--- Business Summary ---\n%s\n", s.BusinessSummary)
	}

	return b.String()
}

var (
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	thousand = decimal.New(1, 3)
)

// FormatValue renders a field value. Numbers with a magnitude of at least a thousand
// are abbreviated with K, M or B and two decimals.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return NotAvailable
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NotAvailable
		}

		return formatDecimal(decimal.NewFromFloat(v), true)
	case int:
		return formatDecimal(decimal.NewFromInt(int64(v)), false)
	case int64:
		return formatDecimal(decimal.NewFromInt(v), false)
	case string:
		switch strings.ToLower(v) {
		case "", "nan", "none":
			return NotAvailable
		}

		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatDecimal(d decimal.Decimal, fractional bool) string {
	magnitude := d.Abs()

	switch {
	case magnitude.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case magnitude.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case magnitude.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	case fractional:
		return d.StringFixed(2)
	default:
		return strconv.FormatInt(d.IntPart(), 10)
	}
}

// formatTimestamp converts unix seconds to a date. A list takes its earliest entry.
func formatTimestamp(value any) any {
	switch v := value.(type) {
	case float64:
		return unixDate(int64(v))
	case int64:
		return unixDate(v)
	case int:
		return unixDate(int64(v))
	case []any:
		earliest, found := int64(0), false

		for _, item := range v {
			seconds, ok := item.(float64)
			if !ok {
				continue
			}

			if !found || int64(seconds) < earliest {
				earliest, found = int64(seconds), true
			}
		}

		if !found {
			return NotAvailable
		}

		return unixDate(earliest)
	default:
		return value
	}
}

func unixDate(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(time.DateOnly)
}
