package marketdata

import (
	"fmt"

	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// Selection is the outcome of choosing between the preferred and the fallback provider.
type Selection struct {
	Provider     provider.ProviderType
	UsedFallback bool
	Reason       string
}

// Available reports whether any provider could be chosen.
func (s Selection) Available() bool {
	return s.Provider != ""
}

// ChooseProvider decides which provider to use given the result of initializing the preferred one.
// The fallback is used only when the preferred provider failed and the fallback is a different provider.
func ChooseProvider(preferred provider.ProviderType, fallback provider.ProviderType, initErr error) Selection {
	if initErr == nil {
		return Selection{
			Provider:     preferred,
			UsedFallback: false,
			Reason:       "",
		}
	}

	reason := fmt.Sprintf("%s provider unavailable: %v", preferred, initErr)

	if fallback == "" || fallback == preferred {
		return Selection{
			Provider:     "",
			UsedFallback: false,
			Reason:       reason,
		}
	}

	return Selection{
		Provider:     fallback,
		UsedFallback: true,
		Reason:       reason,
	}
}

// NewProvider initializes the preferred provider, switching to the fallback if that fails.
func NewProvider(preferred provider.ProviderType, fallback provider.ProviderType, options provider.Options, log *logger.Logger) (provider.Provider, Selection, error) {
	p, initErr := provider.NewMarketDataProvider(preferred, options)

	selection := ChooseProvider(preferred, fallback, initErr)
	if !selection.Available() {
		return nil, selection, errors.Wrapf(errors.ErrCodeProviderUnavailable, initErr, "no market data provider available (preferred %s)", preferred)
	}

	if !selection.UsedFallback {
		log.Info("Using market data provider", zap.String("provider", p.Name()))

		return p, selection, nil
	}

	log.Warn("Preferred market data provider failed to initialize, using fallback",
		zap.String("preferred", string(preferred)),
		zap.String("fallback", string(fallback)),
		zap.Error(initErr),
	)

	p, err := provider.NewMarketDataProvider(selection.Provider, options)
	if err != nil {
		return nil, selection, errors.Wrapf(errors.ErrCodeProviderUnavailable, err, "fallback provider %s failed to initialize", fallback)
	}

	return p, selection, nil
}
