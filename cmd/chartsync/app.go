package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-charts/internal/cache"
	"github.com/rxtech-lab/argo-charts/internal/config"
	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/indicator"
	"github.com/rxtech-lab/argo-charts/internal/infocache"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/metrics"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/watchlist"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app holds the wired components of one CLI invocation.
type app struct {
	config       config.Config
	logger       *logger.Logger
	watchlist    *watchlist.Store
	store        *cache.Store
	redis        *redis.Client
	provider     *infocache.CachingProvider
	registry     *prometheus.Registry
	metrics      *metrics.Metrics
	synchronizer *syncengine.Synchronizer
	loader       *dashboard.Loader
}

// newBaseApp loads the config and creates the logger and the watchlist.
func newBaseApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{
		config:       cfg,
		logger:       log,
		watchlist:    watchlist.NewStore(cfg.WatchlistFile, log.Named("watchlist")),
		store:        nil,
		redis:        nil,
		provider:     nil,
		registry:     nil,
		metrics:      nil,
		synchronizer: nil,
		loader:       nil,
	}, nil
}

// newApp additionally opens the cache and the market data provider.
func newApp(cmd *cli.Command) (*app, error) {
	a, err := newBaseApp(cmd)
	if err != nil {
		return nil, err
	}

	if err := a.openCache(); err != nil {
		a.close()

		return nil, err
	}

	preferred, err := provider.ParseProviderType(a.config.Provider.Preferred)
	if err != nil {
		a.close()

		return nil, err
	}

	var fallback provider.ProviderType
	if a.config.Provider.Fallback != "" {
		if fallback, err = provider.ParseProviderType(a.config.Provider.Fallback); err != nil {
			a.close()

			return nil, err
		}
	}

	marketProvider, selection, err := marketdata.NewProvider(preferred, fallback, provider.Options{
		PolygonApiKey: a.config.Provider.PolygonAPIKey,
		YahooBaseURL:  a.config.Provider.YahooBaseURL,
		Timeout:       a.config.Sync.Timeout,
	}, a.logger)
	if err != nil {
		a.close()

		return nil, err
	}

	if selection.UsedFallback {
		a.logger.Warn("Using fallback provider", zap.String("reason", selection.Reason))
	}

	if a.config.Redis.Addr != "" {
		//nolint:exhaustruct // remaining options keep the go-redis defaults
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})
	}

	a.provider = infocache.NewCachingProvider(marketProvider, a.redis, a.config.Redis.TTL, "", a.logger.Named("infocache"))
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewMetrics(a.registry)
	a.synchronizer = syncengine.NewSynchronizer(a.store, a.provider, indicator.NewDefaultPipeline(a.logger.Named("indicator")), syncengine.Options{
		Timeout:  a.config.Sync.Timeout,
		Observer: a.metrics,
		Now:      nil,
	}, a.logger.Named("sync"))
	a.loader = dashboard.NewLoader(a.synchronizer, a.provider, nil, a.logger.Named("dashboard"))

	return a, nil
}

func (a *app) openCache() error {
	store, err := cache.NewStore(a.config.DataDir, a.logger.Named("cache"))
	if err != nil {
		return err
	}

	a.store = store

	return store.CheckFormat()
}

// years resolves the --years flag against the configured default.
func (a *app) years(cmd *cli.Command) int {
	if cmd.IsSet("years") {
		return syncengine.ClampYears(int(cmd.Int("years")))
	}

	return a.config.Sync.DisplayYears
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close cache", zap.Error(err))
		}
	}

	_ = a.logger.Sync()
}

// withApp runs fn with a fully wired app and closes it afterwards.
func withApp(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}

func dateRangeFor(a *app, cmd *cli.Command) syncengine.DateRange {
	return syncengine.ComputeDateRange(a.years(cmd), time.Now())
}
