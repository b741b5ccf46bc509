package jobs

import (
	"context"

	"github.com/wonny/fortunelab/internal/snapshot"
	"github.com/wonny/fortunelab/pkg/logger"
)

// Refresher is implemented by snapshot.Refresher
type Refresher interface {
	Refresh(ctx context.Context) (*snapshot.View, error)
}

// RefreshJob reloads the artifacts on a fixed cadence
type RefreshJob struct {
	refresher Refresher
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(refresher Refresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "artifact_refresh"
}

// Schedule returns the cron schedule (REFRESH_SCHEDULE)
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh; failures are left to the next tick
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled artifact refresh")

	view, err := j.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"generation": view.Generation,
		"as_of":      view.Meta.AsOf,
	}).Debug("Scheduled refresh applied")

	return nil
}
