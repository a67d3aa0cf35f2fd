// Package api serves chart payloads, company info and the watchlist over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/logger"
	"go.uber.org/zap"
)

// ChartLoader produces the dashboard payload of a ticker.
type ChartLoader interface {
	Load(ctx context.Context, ticker string, years int) dashboard.Payload
}

// Watchlist is the editable list of tickers.
type Watchlist interface {
	Load() ([]string, error)
	Add(ticker string) ([]string, error)
	Remove(ticker string) ([]string, error)
}

// Server is the chartsync HTTP API.
type Server struct {
	loader       ChartLoader
	info         dashboard.CompanyInfoSource
	watchlist    Watchlist
	gatherer     prometheus.Gatherer
	defaultYears int
	logger       *logger.Logger
	httpServer   *http.Server
}

// NewServer creates the API. gatherer may be nil to disable /metrics.
func NewServer(loader ChartLoader, info dashboard.CompanyInfoSource, watchlist Watchlist, gatherer prometheus.Gatherer, defaultYears int, log *logger.Logger) *Server {
	return &Server{
		loader:       loader,
		info:         info,
		watchlist:    watchlist,
		gatherer:     gatherer,
		defaultYears: defaultYears,
		logger:       log,
		httpServer:   nil,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/charts/{ticker}", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/company/{ticker}", s.handleCompany).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", s.handleListWatchlist).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", s.handleAddTicker).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{ticker}", s.handleRemoveTicker).Methods(http.MethodDelete)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return router
}

// Start listens on address and serves in the background.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP API listening", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}
