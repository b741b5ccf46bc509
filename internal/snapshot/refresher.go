package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/fortunelab/internal/contracts"
	"github.com/wonny/fortunelab/internal/dashboardconfig"
	"github.com/wonny/fortunelab/internal/metrics"
	"github.com/wonny/fortunelab/internal/valuation"
	"github.com/wonny/fortunelab/pkg/logger"
)

// Loader loads one snapshot of artifacts (artifacts.Loader)
type Loader interface {
	Load(ctx context.Context) (*contracts.Snapshot, error)
}

// Status describes the refresh history for health/status output
type Status struct {
	Generation  uint64    `json:"generation"`
	LastAttempt time.Time `json:"last_attempt"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
}

// Refresher runs load -> build -> replace.
// A failed refresh keeps the previous view; there is no retry.
type Refresher struct {
	loader  Loader
	cfg     *dashboardconfig.Config
	store   *Store
	metrics *metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time

	mu          sync.Mutex
	lastErr     error
	lastAttempt time.Time
	lastSuccess time.Time
}

// NewRefresher creates a refresher; rec may be nil
func NewRefresher(loader Loader, cfg *dashboardconfig.Config, store *Store, rec *metrics.Recorder, log *logger.Logger) *Refresher {
	return &Refresher{
		loader:  loader,
		cfg:     cfg,
		store:   store,
		metrics: rec,
		logger:  log,
		now:     time.Now,
	}
}

// Store returns the store the refresher writes to
func (r *Refresher) Store() *Store {
	return r.store
}

// Refresh loads a new snapshot and installs its view
func (r *Refresher) Refresh(ctx context.Context) (*View, error) {
	gen := r.store.Begin()
	start := r.now()

	snap, err := r.loader.Load(ctx)
	if err != nil {
		elapsed := r.now().Sub(start)
		r.metrics.RecordRefresh(metrics.ResultFailure, elapsed)
		r.finish(start, err)

		r.logger.WithError(err).WithFields(map[string]interface{}{
			"generation": gen,
			"duration":   elapsed.String(),
		}).Error("Refresh failed, keeping previous snapshot")

		return nil, fmt.Errorf("refresh generation %d: %w", gen, err)
	}

	view := Build(snap, r.cfg)

	for i := range view.Quant {
		fit := &view.Quant[i]
		if fit.OK() {
			continue
		}
		reason := valuation.Reason(fit.Err)
		r.metrics.RecordFitFailure(reason)
		r.logger.WithFields(map[string]interface{}{
			"sector": fit.Sector,
			"items":  fit.Items,
			"reason": reason,
		}).Debug("Sector valuation unavailable")
	}

	if !r.store.Replace(gen, view) {
		// 더 늦게 시작한 갱신이 이미 반영됨
		r.logger.WithField("generation", gen).Warn("Stale refresh discarded")
	}

	elapsed := r.now().Sub(start)
	r.metrics.RecordRefresh(metrics.ResultSuccess, elapsed)
	current := r.store.Current()
	r.metrics.SetWatchlistSize(len(current.Watchlist))
	r.finish(start, nil)

	r.logger.WithFields(map[string]interface{}{
		"generation":   gen,
		"as_of":        view.Meta.AsOf,
		"candidates":   len(view.Watchlist),
		"sectors":      len(view.Quant),
		"fit_failures": view.FitFailures(),
		"duration":     elapsed.String(),
	}).Info("Snapshot refreshed")

	return current, nil
}

func (r *Refresher) finish(attempt time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastAttempt = attempt
	r.lastErr = err
	if err == nil {
		r.lastSuccess = attempt
	}
}

// LastError returns the error of the most recent refresh, nil on success
func (r *Refresher) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Status returns the refresh history
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{
		LastAttempt: r.lastAttempt,
		LastSuccess: r.lastSuccess,
	}
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	if v := r.store.Current(); v != nil {
		st.Generation = v.Generation
	}
	return st
}
