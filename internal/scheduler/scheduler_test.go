package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fortunelab/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     int
	err      error
	sawDL    bool
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	_, j.sawDL = ctx.Deadline()
	return j.err
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := New(logger.Nop(), 0)

	job := &countingJob{name: "artifact_refresh", schedule: "0 */5 * * * *"}
	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate name")

	assert.Equal(t, []string{"artifact_refresh"}, s.GetAllJobs())

	require.NoError(t, s.RemoveJob("artifact_refresh"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("artifact_refresh"))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(logger.Nop(), 0)

	err := s.AddJob(&countingJob{name: "bad", schedule: "every five minutes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to schedule job bad")
	assert.Empty(t, s.GetAllJobs())
}

func TestScheduler_RunJobNoRetry(t *testing.T) {
	s := New(logger.Nop(), time.Minute)

	job := &countingJob{name: "flaky", schedule: "@every 1h", err: errors.New("source unavailable")}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "source unavailable", result.Error)
	assert.Equal(t, 1, job.runs)
	assert.True(t, job.sawDL, "run timeout applied")

	_, err = s.RunJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_Stats(t *testing.T) {
	s := New(logger.Nop(), 0)

	job := &countingJob{name: "artifact_refresh", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(job))

	_, _ = s.RunJob(context.Background(), "artifact_refresh")
	job.err = errors.New("boom")
	_, _ = s.RunJob(context.Background(), "artifact_refresh")

	stats := s.GetJobStats()["artifact_refresh"]
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailureCount)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	require.NotNil(t, stats.LastRun)
	require.NotNil(t, stats.LastSuccess)
	require.NotNil(t, stats.LastFailure)
	assert.False(t, stats.LastFailure.Before(*stats.LastSuccess))

	history, err := s.GetJobHistory("artifact_refresh")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop(), 0)
	require.NoError(t, s.AddJob(&countingJob{name: "idle", schedule: "@every 1h"}))

	s.Start()
	assert.NotNil(t, s.GetJobStats()["idle"].NextRun)
	s.Stop()
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+20; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Len(t, h.GetLatestResults(500), maxHistory)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
