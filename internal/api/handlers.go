package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-charts/internal/companyinfo"
	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/internal/watchlist"
	"github.com/rxtech-lab/argo-charts/pkg/errors"
	"go.uber.org/zap"
)

// PanelResponse is one chart panel.
type PanelResponse struct {
	Interval   types.Interval                       `json:"interval"`
	Rows       int                                  `json:"rows"`
	Message    string                               `json:"message,omitempty"`
	Bars       []types.Bar                          `json:"bars"`
	Indicators map[string][]optional.Option[float64] `json:"indicators"`
}

// ChartResponse is the body of GET /api/v1/charts/{ticker}.
type ChartResponse struct {
	Ticker      string               `json:"ticker"`
	Range       syncengine.DateRange `json:"range"`
	Daily       PanelResponse        `json:"daily"`
	Weekly      PanelResponse        `json:"weekly"`
	CompanyInfo companyinfo.Summary  `json:"companyInfo"`
	Error       string               `json:"error,omitempty"`
}

// WatchlistResponse is the body of the watchlist endpoints.
type WatchlistResponse struct {
	Tickers []string `json:"tickers"`
}

type addTickerRequest struct {
	Ticker string `json:"ticker"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ticker := watchlist.NormalizeTicker(mux.Vars(r)["ticker"])

	years := s.defaultYears

	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "years must be an integer")

			return
		}

		years = parsed
	}

	payload := s.loader.Load(r.Context(), ticker, years)

	response := ChartResponse{
		Ticker:      payload.Ticker,
		Range:       payload.Range,
		Daily:       panelResponse(payload.Daily),
		Weekly:      panelResponse(payload.Weekly),
		CompanyInfo: companyinfo.Summarize(payload.CompanyInfo),
		Error:       payload.Error,
	}

	status := http.StatusOK
	if payload.Failed() {
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, response)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	ticker := watchlist.NormalizeTicker(mux.Vars(r)["ticker"])

	summary := companyinfo.Summarize(s.info.GetCompanyInfo(r.Context(), ticker))

	status := http.StatusOK
	if summary.Error != "" {
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, summary)
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, _ *http.Request) {
	tickers, err := s.watchlist.Load()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	s.writeJSON(w, http.StatusOK, WatchlistResponse{Tickers: tickers})
}

func (s *Server) handleAddTicker(w http.ResponseWriter, r *http.Request) {
	var request addTickerRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	tickers, err := s.watchlist.Add(request.Ticker)
	if err != nil {
		s.writeCodedError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, WatchlistResponse{Tickers: tickers})
}

func (s *Server) handleRemoveTicker(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.watchlist.Remove(mux.Vars(r)["ticker"])
	if err != nil {
		s.writeCodedError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, WatchlistResponse{Tickers: tickers})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func panelResponse(panel dashboard.Panel) PanelResponse {
	response := PanelResponse{
		Interval:   panel.Interval,
		Rows:       panel.Rows,
		Message:    panel.Message,
		Bars:       []types.Bar{},
		Indicators: map[string][]optional.Option[float64]{},
	}

	// a panel without rows carries a message only
	if panel.Rows == 0 {
		return response
	}

	response.Bars = panel.Series.Bars
	for _, column := range panel.Series.Columns {
		response.Indicators[column.Name] = column.Values
	}

	return response
}

func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeDuplicateTicker:
		return http.StatusConflict
	case errors.ErrCodeTickerNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidTicker:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message, Category: ""})
}

// writeCodedError maps a typed error to its status and reports the code's category.
func (s *Server) writeCodedError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusOf(err), errorResponse{Error: err.Error(), Category: errors.GetCode(err).Category()})
}
