package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wonny/fortunelab/internal/api"
	"github.com/wonny/fortunelab/internal/api/handlers"
	"github.com/wonny/fortunelab/internal/metrics"
	"github.com/wonny/fortunelab/internal/render"
	"github.com/wonny/fortunelab/internal/scheduler"
	"github.com/wonny/fortunelab/internal/scheduler/jobs"
	"github.com/wonny/fortunelab/internal/snapshot"
)

// refreshTimeout bounds one scheduled refresh
const refreshTimeout = 2 * time.Minute

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "대시보드 서버 시작",
	Long: `대시보드 HTTP 서버를 시작합니다.

이 명령어는:
- 산출물 최초 로드 (실패해도 서버는 시작, 503 응답)
- REFRESH_SCHEDULE 주기로 산출물 갱신
- HTML 대시보드 + JSON API 제공

Endpoints:
  GET  /health
  GET  /metrics               - METRICS_ENABLED=true
  GET  /api/meta | sectors | watchlist | quant | backtest | news
  POST /api/refresh           - 수동 갱신
  GET  /                      - 대시보드 (?tab=watchlist|quant|backtest|news)

Example:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard serve --port 8080`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "서버 포트 (기본: PORT 환경변수)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Config, logger, artifact source
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Metrics (nil recorder = disabled)
	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec = metrics.New(reg)
	}

	// 3. Snapshot store + initial refresh
	store := snapshot.NewStore()
	refresher := snapshot.NewRefresher(a.loader, a.dashboard, store, rec, log)

	if _, err := refresher.Refresh(cmd.Context()); err != nil {
		log.WithError(err).Warn("Initial refresh failed, serving 503 until the next refresh")
	}

	// 4. Scheduler
	sched := scheduler.New(log, refreshTimeout)
	if err := sched.AddJob(jobs.NewRefreshJob(refresher, cfg.RefreshSchedule, log)); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 5. Renderer, handlers, router
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	handler := handlers.NewDashboardHandler(refresher, renderer, log)
	router := api.NewRouter(handler, rec, log)
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Dashboard running on http://localhost:%s", cfg.Port))
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	for name, stats := range sched.GetJobStats() {
		log.WithFields(map[string]interface{}{
			"job":      name,
			"runs":     stats.TotalRuns,
			"failures": stats.FailureCount,
		}).Info("Job summary")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
