package marketdata

import (
	"fmt"
	"sort"

	"github.com/rxtech-lab/argo-charts/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name                 string `json:"name"`
	DisplayName          string `json:"displayName"`
	Description          string `json:"description"`
	RequiresAuth         bool   `json:"requiresAuth"`
	SupportsFundamentals bool   `json:"supportsFundamentals"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderPolygon: {
		Name:                 string(provider.ProviderPolygon),
		DisplayName:          "Polygon.io",
		Description:          "US stock market data provider with historical OHLCV data and ticker details",
		RequiresAuth:         true,
		SupportsFundamentals: true,
	},
	provider.ProviderYahoo: {
		Name:                 string(provider.ProviderYahoo),
		DisplayName:          "Yahoo Finance",
		Description:          "Public chart API covering global equities, indices and crypto pairs",
		RequiresAuth:         false,
		SupportsFundamentals: true,
	},
	provider.ProviderBinance: {
		Name:                 string(provider.ProviderBinance),
		DisplayName:          "Binance",
		Description:          "Cryptocurrency exchange with extensive market data for crypto trading pairs",
		RequiresAuth:         false,
		SupportsFundamentals: false,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported provider: %s", providerName)
	}

	return info, nil
}
