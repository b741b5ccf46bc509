package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fortunelab/internal/api/handlers"
	"github.com/wonny/fortunelab/internal/metrics"
	"github.com/wonny/fortunelab/pkg/logger"
)

// NewRouter creates and configures the HTTP router; rec may be nil
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h *handlers.DashboardHandler, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health).Methods("GET")
	if rec != nil {
		r.Handle("/metrics", rec.Handler()).Methods("GET")
	}

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/meta", h.GetMeta).Methods("GET")
	api.HandleFunc("/sectors", h.GetSectors).Methods("GET")
	api.HandleFunc("/watchlist", h.GetWatchlist).Methods("GET")
	api.HandleFunc("/watchlist/{ticker}", h.GetCandidate).Methods("GET")
	api.HandleFunc("/quant", h.GetQuant).Methods("GET")
	api.HandleFunc("/quant/{sector}", h.GetQuantSector).Methods("GET")
	api.HandleFunc("/backtest", h.GetBacktests).Methods("GET")
	api.HandleFunc("/news", h.GetNews).Methods("GET")
	api.HandleFunc("/refresh", h.Refresh).Methods("POST")

	// HTML
	r.HandleFunc("/", h.Page).Methods("GET")
	fragments := r.PathPrefix("/fragments").Subrouter()
	fragments.HandleFunc("/watchlist", h.WatchlistFragment).Methods("GET")
	fragments.HandleFunc("/modal/{ticker}", h.ModalFragment).Methods("GET")
	fragments.HandleFunc("/quant/{sector}", h.QuantFragment).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
	})

	// Apply middleware (metrics가 가장 바깥에서 최종 status를 기록)
	r.Use(rec.Middleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
