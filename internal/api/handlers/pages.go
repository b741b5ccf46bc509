package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/fortunelab/internal/render"
)

// Page renders the full dashboard
// GET /?tab=watchlist|quant|backtest|news
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	view := h.refresher.Store().Current()

	data := render.PageData{
		View:  view,
		Tab:   r.URL.Query().Get("tab"),
		Error: h.refresher.Status().LastError,
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		h.renderFailed(w, "page", err)
		return
	}

	status := http.StatusOK
	if view == nil {
		status = http.StatusServiceUnavailable
	}
	respondHTML(w, status, &buf)
}

// WatchlistFragment renders the sector cards and candidate list
// GET /fragments/watchlist
func (h *DashboardHandler) WatchlistFragment(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Watchlist(&buf, view); err != nil {
		h.renderFailed(w, "watchlist", err)
		return
	}
	respondHTML(w, http.StatusOK, &buf)
}

// ModalFragment renders the candidate detail dialog
// GET /fragments/modal/{ticker}
func (h *DashboardHandler) ModalFragment(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w)
	if !ok {
		return
	}

	ticker := mux.Vars(r)["ticker"]

	var buf bytes.Buffer
	err := h.renderer.Modal(&buf, view, ticker)
	if errors.Is(err, render.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Candidate not found: "+ticker)
		return
	}
	if err != nil {
		h.renderFailed(w, "modal", err)
		return
	}
	respondHTML(w, http.StatusOK, &buf)
}

// QuantFragment renders one sector's scatter plot or its empty state
// GET /fragments/quant/{sector}
func (h *DashboardHandler) QuantFragment(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := h.renderer.Quant(&buf, fit); err != nil {
		h.renderFailed(w, "quant", err)
		return
	}
	respondHTML(w, http.StatusOK, &buf)
}

func (h *DashboardHandler) renderFailed(w http.ResponseWriter, fragment string, err error) {
	h.logger.WithError(err).WithField("fragment", fragment).Error("Render failed")
	respondError(w, http.StatusInternalServerError, "Failed to render "+fragment)
}
