package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/interfaces"
)

var errJobRunning = errors.New("already running")

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name        string
	schedule    string
	description string
	handler     interfaces.JobHandler
	cronID      cron.EntryID
	lastRun     *time.Time
	isRunning   bool
	lastError   string
	runs        int
	skipped     int
}

// Service implements SchedulerService on top of robfig/cron
type Service struct {
	cron    *cron.Cron
	logger  arbor.ILogger
	jobMu   sync.Mutex // Protects jobs map and entry state
	jobs    map[string]*jobEntry
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewService creates a new scheduler service
func NewService(logger arbor.ILogger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*jobEntry),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins firing registered jobs on their schedules
func (s *Service) Start() error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler, cancels the job context and waits for in-flight
// runs to return
func (s *Service) Stop() error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.jobMu.Unlock()

	stopped := s.cron.Stop()
	cancel()
	<-stopped.Done()
	s.wg.Wait()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.running
}

// RegisterJob registers a new job with the scheduler
func (s *Service) RegisterJob(name, schedule, description string, handler interfaces.JobHandler) error {
	if err := common.ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	entry := &jobEntry{
		name:        name,
		schedule:    schedule,
		description: description,
		handler:     handler,
	}

	cronID, err := s.cron.AddFunc(schedule, func() {
		s.executeJob(name)
	})
	if err != nil {
		return fmt.Errorf("failed to add job to cron: %w", err)
	}

	entry.cronID = cronID
	s.jobs[name] = entry

	s.logger.Info().
		Str("job_name", name).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

// GetJobStatus returns the status of a specific job
func (s *Service) GetJobStatus(name string) (*interfaces.JobStatus, error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}

	var nextRun *time.Time
	if s.running {
		next := s.cron.Entry(entry.cronID).Next
		if !next.IsZero() {
			nextRun = &next
		}
	}

	return &interfaces.JobStatus{
		Name:        entry.name,
		Schedule:    entry.schedule,
		Description: entry.description,
		LastRun:     entry.lastRun,
		NextRun:     nextRun,
		IsRunning:   entry.isRunning,
		LastError:   entry.lastError,
		Runs:        entry.runs,
		Skipped:     entry.skipped,
	}, nil
}

// GetAllJobStatuses returns all job statuses
func (s *Service) GetAllJobStatuses() map[string]*interfaces.JobStatus {
	s.jobMu.Lock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	s.jobMu.Unlock()

	statuses := make(map[string]*interfaces.JobStatus)
	for _, name := range names {
		if status, err := s.GetJobStatus(name); err == nil {
			statuses[name] = status
		}
	}
	return statuses
}

// TriggerJob runs a job immediately in the background. The scheduler must be
// running and the job must not already be in progress.
func (s *Service) TriggerJob(name string) error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return fmt.Errorf("scheduler is not running")
	}
	entry, err := s.reserve(name)
	if err != nil {
		s.jobMu.Unlock()
		return err
	}
	ctx := s.ctx
	s.jobMu.Unlock()

	s.logger.Info().Str("job_name", name).Msg("Manually triggering job execution")

	go s.run(ctx, entry)
	return nil
}

// reserve marks a job as running and adds it to the wait group.
// Caller must hold jobMu.
func (s *Service) reserve(name string) (*jobEntry, error) {
	entry, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	if entry.isRunning {
		return entry, fmt.Errorf("job %s is %w", name, errJobRunning)
	}
	entry.isRunning = true
	s.wg.Add(1)
	return entry, nil
}

// executeJob runs a scheduled tick. A tick that arrives while the previous run
// is still going is skipped.
func (s *Service) executeJob(name string) {
	s.jobMu.Lock()
	entry, err := s.reserve(name)
	if err != nil {
		if entry != nil {
			entry.skipped++
		}
		s.jobMu.Unlock()
		s.logger.Warn().Str("job_name", name).Err(err).Msg("Skipping scheduled run")
		return
	}
	ctx := s.ctx
	s.jobMu.Unlock()

	s.run(ctx, entry)
}

// run executes a reserved job with panic recovery and records its outcome
func (s *Service) run(ctx context.Context, entry *jobEntry) {
	defer s.wg.Done()

	start := time.Now()
	err := s.runHandler(ctx, entry.name, entry.handler)

	completed := time.Now()
	s.jobMu.Lock()
	entry.isRunning = false
	entry.lastRun = &completed
	entry.runs++
	if err != nil {
		entry.lastError = err.Error()
	} else {
		entry.lastError = ""
	}
	s.jobMu.Unlock()

	if err != nil {
		s.logger.Error().
			Str("job_name", entry.name).
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Job execution failed")
		return
	}

	s.logger.Info().
		Str("job_name", entry.name).
		Dur("duration", time.Since(start)).
		Msg("Job execution completed")
}

// runHandler converts a handler panic into an error
func (s *Service) runHandler(ctx context.Context, name string, handler interfaces.JobHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("job_name", name).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Panic recovered in job execution")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	s.logger.Debug().Str("job_name", name).Msg("Job execution started")
	return handler(ctx)
}
