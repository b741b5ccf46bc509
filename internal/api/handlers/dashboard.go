package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/fortunelab/internal/render"
	"github.com/wonny/fortunelab/internal/snapshot"
	"github.com/wonny/fortunelab/pkg/logger"
)

// Refresher is implemented by snapshot.Refresher
type Refresher interface {
	Refresh(ctx context.Context) (*snapshot.View, error)
	Store() *snapshot.Store
	Status() snapshot.Status
}

// DashboardHandler serves the current snapshot as JSON and HTML
// ⭐ SSOT: 대시보드 API 핸들러는 이 구조체에서만
type DashboardHandler struct {
	refresher Refresher
	renderer  *render.Renderer
	logger    *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(refresher Refresher, renderer *render.Renderer, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		refresher: refresher,
		renderer:  renderer,
		logger:    log,
	}
}

// current returns the installed view or answers 503
func (h *DashboardHandler) current(w http.ResponseWriter) (*snapshot.View, bool) {
	view := h.refresher.Store().Current()
	if view == nil {
		respondError(w, http.StatusServiceUnavailable, "Snapshot not loaded yet")
		return nil, false
	}
	return view, true
}

// Health reports liveness and whether a snapshot is installed
// GET /health
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.refresher.Status()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"service":    "fortunelab",
		"ready":      h.refresher.Store().Current() != nil,
		"generation": st.Generation,
		"last_error": st.LastError,
	})
}

// GetMeta returns meta.json plus refresh status
// GET /api/meta
func (h *DashboardHandler) GetMeta(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"meta":       view.Meta,
		"loaded_at":  view.LoadedAt,
		"generation": view.Generation,
		"refresh":    h.refresher.Status(),
	})
}

// GetSectors returns the top sectors
// GET /api/sectors
func (h *DashboardHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"as_of": view.Meta.AsOf,
		"items": view.Sectors,
	})
}

// GetWatchlist returns the ranked watchlist
// GET /api/watchlist
func (h *DashboardHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"as_of": view.Meta.AsOf,
		"count": len(view.Watchlist),
		"items": view.Watchlist,
	})
}

// GetCandidate returns one candidate with its related news
// GET /api/watchlist/{ticker}
func (h *DashboardHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	ticker := mux.Vars(r)["ticker"]
	c, found := view.Candidate(ticker)
	if !found {
		respondError(w, http.StatusNotFound, "Candidate not found: "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidate": c,
		"news":      view.NewsFor(ticker),
	})
}

// GetQuant returns every sector's valuation fit
// GET /api/quant
func (h *DashboardHandler) GetQuant(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sectors":      view.Quant,
		"fit_failures": view.FitFailures(),
	})
}

// GetQuantSector returns one sector's fit; 422 when it could not be fitted
// GET /api/quant/{sector}
func (h *DashboardHandler) GetQuantSector(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	sector := mux.Vars(r)["sector"]
	fit, found := view.Sector(sector)
	if !found {
		respondError(w, http.StatusNotFound, "Sector not found: "+sector)
		return
	}

	if !fit.OK() {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  fit.Error,
			"reason": fit.Reason,
			"sector": fit.Sector,
			"items":  fit.Items,
		})
		return
	}

	respondJSON(w, http.StatusOK, fit)
}

// GetBacktests returns the backtest panels
// GET /api/backtest
func (h *DashboardHandler) GetBacktests(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": view.Backtests,
	})
}

// GetNews returns the research channel mentions
// GET /api/news
func (h *DashboardHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, view.News)
}

// Refresh reloads the artifacts synchronously
// POST /api/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Manual refresh failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generation": view.Generation,
		"as_of":      view.Meta.AsOf,
		"candidates": len(view.Watchlist),
	})
}
