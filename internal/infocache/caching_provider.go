// Package infocache decorates a market data provider with a Redis cache for company info.
package infocache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL applies when the configured ttl is not positive.
	DefaultTTL = 6 * time.Hour
	// DefaultNamespace prefixes every key.
	DefaultNamespace = "chartsync:companyinfo"
	// sharedLookupTimeout bounds an upstream call shared by several callers.
	sharedLookupTimeout = 30 * time.Second
)

// CachingProvider caches GetCompanyInfo results in Redis. Historical data requests pass
// straight through. Concurrent lookups of the same ticker share one upstream call.
// Failed lookups are never cached.
type CachingProvider struct {
	inner     provider.Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	group     singleflight.Group
	logger    *logger.Logger
}

var _ provider.Provider = (*CachingProvider)(nil)

// NewCachingProvider wraps inner. A nil rdb disables caching.
func NewCachingProvider(inner provider.Provider, rdb *redis.Client, ttl time.Duration, namespace string, log *logger.Logger) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &CachingProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		group:     singleflight.Group{},
		logger:    log,
	}
}

// Name returns the wrapped provider's name.
func (c *CachingProvider) Name() string {
	return c.inner.Name()
}

// GetHistoricalData is not cached.
func (c *CachingProvider) GetHistoricalData(ctx context.Context, ticker string, start time.Time, end time.Time, interval types.Interval) (types.Series, error) {
	return c.inner.GetHistoricalData(ctx, ticker, start, end, interval)
}

// GetCompanyInfo returns the cached info of ticker or fetches and stores it.
func (c *CachingProvider) GetCompanyInfo(ctx context.Context, ticker string) types.CompanyInfo {
	if c.rdb == nil {
		return c.inner.GetCompanyInfo(ctx, ticker)
	}

	key := c.cacheKey(ticker)

	if info, ok := c.lookup(ctx, key); ok {
		return info
	}

	// The shared call outlives any single caller; each caller still stops waiting on its own ctx.
	results := c.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		info := c.inner.GetCompanyInfo(sharedCtx, ticker)
		if !info.HasError() {
			c.store(sharedCtx, key, info)
		}

		return info, nil
	})

	var value any

	select {
	case result := <-results:
		value = result.Val
	case <-ctx.Done():
		return types.NewCompanyInfoError(ticker, "Could not retrieve company info for %s: %v", ticker, ctx.Err())
	}

	info, ok := value.(types.CompanyInfo)
	if !ok {
		return types.NewCompanyInfoError(ticker, "Could not retrieve company info for %s.", ticker)
	}

	return info
}

// Invalidate drops the cached info of ticker.
func (c *CachingProvider) Invalidate(ctx context.Context, ticker string) error {
	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Del(ctx, c.cacheKey(ticker)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate company info of %s: %w", ticker, err)
	}

	return nil
}

func (c *CachingProvider) lookup(ctx context.Context, key string) (types.CompanyInfo, bool) {
	var info types.CompanyInfo

	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Company info cache read failed", zap.String("key", key), zap.Error(err))
		}

		return info, false
	}

	if err := json.Unmarshal(payload, &info); err != nil || info.HasError() {
		c.logger.Warn("Dropping corrupt company info cache entry", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, key).Err()

		return types.CompanyInfo{}, false
	}

	return info, true
}

func (c *CachingProvider) store(ctx context.Context, key string, info types.CompanyInfo) {
	payload, err := json.Marshal(info)
	if err != nil {
		c.logger.Warn("Failed to encode company info", zap.String("key", key), zap.Error(err))

		return
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Company info cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachingProvider) cacheKey(ticker string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	symbol = strings.ReplaceAll(symbol, " ", "_")
	symbol = strings.ReplaceAll(symbol, ":", "_")

	return c.namespace + ":" + symbol
}
