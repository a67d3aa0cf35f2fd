package companyinfo

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/stretchr/testify/suite"
)

type CompanyInfoTestSuite struct {
	suite.Suite
}

func TestCompanyInfoSuite(t *testing.T) {
	suite.Run(t, new(CompanyInfoTestSuite))
}

func (suite *CompanyInfoTestSuite) TestFormatValue() {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: "N/A"},
		{name: "billions", value: 2_950_000_000_000.0, expected: "2950.00B"},
		{name: "millions", value: 15_441_000.0, expected: "15.44M"},
		{name: "thousands", value: 1234.0, expected: "1.23K"},
		{name: "negative millions", value: -2_500_000.0, expected: "-2.50M"},
		{name: "small float", value: 28.456, expected: "28.46"},
		{name: "small int", value: 42, expected: "42"},
		{name: "large int", value: int64(161000), expected: "161.00K"},
		{name: "string", value: "Technology", expected: "Technology"},
		{name: "nan string", value: "NaN", expected: "N/A"},
		{name: "url", value: "https://www.apple.com", expected: "https://www.apple.com"},
		{name: "bool", value: true, expected: "true"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, FormatValue(tc.value))
		})
	}
}

func (suite *CompanyInfoTestSuite) TestSummarize() {
	info := types.CompanyInfo{
		Ticker: "AAPL",
		Fields: map[string]any{
			"longName":               "Apple Inc.",
			"sector":                 "Technology",
			"marketCap":              3.1e12,
			"currency":               "USD",
			"exDividendDate":         1715299200.0,
			"earningsTimestampStart": []any{1722530000.0, 1722446400.0},
			"longBusinessSummary":    "Designs phones.",
			"unknownKey":             "ignored",
		},
		Error: "",
	}

	summary := Summarize(info)

	suite.Empty(summary.Error)
	suite.Equal("Apple Inc. (AAPL)", summary.Title)
	suite.Equal([]Line{
		{Label: "Sector", Value: "Technology"},
		{Label: "Currency", Value: "USD"},
		{Label: "Market Cap", Value: "3100.00B"},
		{Label: "Ex-Dividend Date", Value: "2024-05-10"},
		{Label: "Earnings Date", Value: "2024-07-31"},
	}, summary.Lines)
	suite.Equal("Designs phones.", summary.BusinessSummary)

	text := summary.String()
	suite.Contains(text, "--- Apple Inc. (AAPL) ---\n")
	suite.Contains(text, "Market Cap: 3100.00B\n")
	suite.Contains(text, "--- Business Summary ---\nDesigns phones.")
}

func (suite *CompanyInfoTestSuite) TestSummarizeFallsBackToTicker() {
	summary := Summarize(types.CompanyInfo{Ticker: "BTC-USD", Fields: map[string]any{"currency": "USD"}, Error: ""})

	suite.Equal("BTC-USD (BTC-USD)", summary.Title)
}

func (suite *CompanyInfoTestSuite) TestSummarizeErrors() {
	failed := Summarize(types.NewCompanyInfoError("XYZ", "No substantial company information found for %s.", "XYZ"))
	suite.Equal("No substantial company information found for XYZ.", failed.Error)
	suite.Equal(failed.Error, failed.String())

	empty := Summarize(types.CompanyInfo{Ticker: "XYZ", Fields: nil, Error: ""})
	suite.Equal("No company information available for XYZ.", empty.Error)
}

func (suite *CompanyInfoTestSuite) TestTimestampListWithoutNumbers() {
	suite.Equal("N/A", formatTimestamp([]any{"soon"}))
	suite.Equal("N/A", FormatValue(math.NaN()))
	suite.Equal("N/A", FormatValue(math.Inf(1)))
}
