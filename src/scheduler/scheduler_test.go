package scheduler

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(discardLogger())
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Zero(t, s.Entries())
}

func TestRunNowReturnsJobError(t *testing.T) {
	s := New(discardLogger())
	job := &countingJob{err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(discardLogger())
	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 1s", job))
	assert.Equal(t, 1, s.Entries())

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
