package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-charts/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-charts/internal/indicator Indicator
//go:generate mockgen -destination=./mock_cache.go -package=mocks github.com/rxtech-lab/argo-charts/internal/syncengine Cache
//go:generate mockgen -destination=./mock_synchronizer.go -package=mocks github.com/rxtech-lab/argo-charts/internal/dashboard Synchronizer
