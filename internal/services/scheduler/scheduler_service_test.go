package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(arbor.NewLogger())
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func noop(context.Context) error { return nil }

func TestRegisterJob(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "hourly", noop))

	err := s.RegisterJob("risk_refresh", "0 * * * *", "again", noop)
	assert.Error(t, err)

	err = s.RegisterJob("bad", "every hour", "", noop)
	assert.Error(t, err)

	status, err := s.GetJobStatus("risk_refresh")
	require.NoError(t, err)
	assert.Equal(t, "0 * * * *", status.Schedule)
	assert.Nil(t, status.NextRun)

	_, err = s.GetJobStatus("missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "", noop))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	status, err := s.GetJobStatus("risk_refresh")
	require.NoError(t, err)
	assert.NotNil(t, status.NextRun)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}

func TestTriggerJob(t *testing.T) {
	s := newTestService(t)

	var calls atomic.Int32
	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "", func(context.Context) error {
		calls.Add(1)
		return nil
	}))

	err := s.TriggerJob("risk_refresh")
	assert.EqualError(t, err, "scheduler is not running")

	require.NoError(t, s.Start())
	require.NoError(t, s.TriggerJob("risk_refresh"))
	require.Eventually(t, func() bool {
		status, _ := s.GetJobStatus("risk_refresh")
		return status.Runs == 1 && status.LastRun != nil
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Error(t, s.TriggerJob("missing"))
}

func TestExecuteJob_SkipsOverlappingRun(t *testing.T) {
	s := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))

	done := make(chan struct{})
	go func() {
		s.executeJob("risk_refresh")
		close(done)
	}()
	<-started

	s.executeJob("risk_refresh")
	require.NoError(t, s.Start())
	err := s.TriggerJob("risk_refresh")
	assert.True(t, errors.Is(err, errJobRunning))

	close(release)
	<-done

	status, err := s.GetJobStatus("risk_refresh")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, 1, status.Skipped)
	assert.False(t, status.IsRunning)
}

func TestTriggerJob_MarksRunningBeforeReturning(t *testing.T) {
	s := newTestService(t)

	release := make(chan struct{})
	require.NoError(t, s.RegisterJob("news_refresh", "0 * * * *", "", func(context.Context) error {
		<-release
		return nil
	}))
	require.NoError(t, s.Start())

	require.NoError(t, s.TriggerJob("news_refresh"))
	status, err := s.GetJobStatus("news_refresh")
	require.NoError(t, err)
	assert.True(t, status.IsRunning)

	close(release)
	require.Eventually(t, func() bool {
		status, _ := s.GetJobStatus("news_refresh")
		return !status.IsRunning && status.Runs == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStop_WaitsForTriggeredRun(t *testing.T) {
	s := newTestService(t)

	started := make(chan struct{})
	var sawCancel atomic.Bool
	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}))
	require.NoError(t, s.Start())
	require.NoError(t, s.TriggerJob("risk_refresh"))
	<-started

	require.NoError(t, s.Stop())
	assert.True(t, sawCancel.Load())

	status, err := s.GetJobStatus("risk_refresh")
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
	assert.Equal(t, context.Canceled.Error(), status.LastError)
}

func TestRestart_GivesJobsALiveContext(t *testing.T) {
	s := newTestService(t)

	ctxErr := make(chan error, 1)
	require.NoError(t, s.RegisterJob("risk_refresh", "0 * * * *", "", func(ctx context.Context) error {
		ctxErr <- ctx.Err()
		return nil
	}))

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	assert.Error(t, s.TriggerJob("risk_refresh"))

	require.NoError(t, s.Start())
	require.NoError(t, s.TriggerJob("risk_refresh"))

	select {
	case err := <-ctxErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("triggered job did not run")
	}
}

func TestExecuteJob_RecordsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(context.Context) error
		want    string
	}{
		{"handler error", func(context.Context) error { return errors.New("store unavailable") }, "store unavailable"},
		{"handler panic", func(context.Context) error { panic("boom") }, "panic: boom"},
		{"success clears error", noop, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			require.NoError(t, s.RegisterJob("job", "0 * * * *", "", tt.handler))

			s.executeJob("job")

			status, err := s.GetJobStatus("job")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status.LastError)
			assert.Equal(t, 1, status.Runs)
		})
	}
}

func TestGetAllJobStatuses(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.RegisterJob("a", "0 * * * *", "", noop))
	require.NoError(t, s.RegisterJob("b", "*/5 * * * *", "", noop))

	statuses := s.GetAllJobStatuses()
	assert.Len(t, statuses, 2)
	assert.Equal(t, "*/5 * * * *", statuses["b"].Schedule)
}
