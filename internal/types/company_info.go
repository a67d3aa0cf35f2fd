package types

import "fmt"

// CompanyInfo holds the fundamentals returned by a provider.
// A non-empty Error marks a failed lookup; Fields may then be empty.
type CompanyInfo struct {
	Ticker string         `json:"ticker"`
	Fields map[string]any `json:"fields"`
	Error  string         `json:"error,omitempty"`
}

// NewCompanyInfoError builds an info value that carries only a failure marker.
func NewCompanyInfoError(ticker string, format string, args ...any) CompanyInfo {
	return CompanyInfo{
		Ticker: ticker,
		Fields: map[string]any{},
		Error:  fmt.Sprintf(format, args...),
	}
}

// HasError reports whether the lookup failed.
func (c CompanyInfo) HasError() bool {
	return c.Error != ""
}

// Get returns a field value, or nil when absent.
func (c CompanyInfo) Get(key string) any {
	if c.Fields == nil {
		return nil
	}

	return c.Fields[key]
}

// IsSubstantial reports whether the fields carry anything worth showing.
// Name, price, previous close, currency and market cap all missing means no.
func (c CompanyInfo) IsSubstantial() bool {
	if len(c.Fields) == 0 {
		return false
	}

	for _, key := range []string{"regularMarketPrice", "previousClose", "longName", "currency", "marketCap"} {
		v, ok := c.Fields[key]
		if !ok || v == nil {
			continue
		}

		switch value := v.(type) {
		case string:
			if value != "" {
				return true
			}
		case float64:
			if value != 0 {
				return true
			}
		case int64:
			if value != 0 {
				return true
			}
		case int:
			if value != 0 {
				return true
			}
		default:
			return true
		}
	}

	return false
}
