package interfaces

import (
	"context"
	"time"
)

// JobHandler is the work done on each scheduled tick
type JobHandler func(ctx context.Context) error

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name        string
	Schedule    string
	Description string
	LastRun     *time.Time
	NextRun     *time.Time
	IsRunning   bool
	LastError   string
	Runs        int
	Skipped     int // Ticks dropped because the previous run had not finished
}

// SchedulerService manages cron-based scheduling
type SchedulerService interface {
	// Start the scheduler
	Start() error

	// Stop the scheduler and wait for running jobs
	Stop() error

	// IsRunning returns true if scheduler is active
	IsRunning() bool

	// RegisterJob registers a new job with the scheduler
	RegisterJob(name, schedule, description string, handler JobHandler) error

	// TriggerJob runs a job now in the background. Fails when the scheduler
	// is stopped or the job is already running.
	TriggerJob(name string) error

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)

	// GetAllJobStatuses returns all job statuses
	GetAllJobStatuses() map[string]*JobStatus
}
