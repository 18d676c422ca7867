package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/metrics"
)

// Job is a function run every Interval. A zero Timeout lets a run last
// until the scheduler stops.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs jobs on fixed intervals, each in its own goroutine. Runs of
// the same job never overlap.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers a job. Jobs must be added before Start.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("cron: cannot add job %q after start", job.Name)
	}
	if job.Interval <= 0 {
		return fmt.Errorf("cron: job %q needs a positive interval", job.Name)
	}
	for _, existing := range s.jobs {
		if existing.Name == job.Name {
			return fmt.Errorf("cron: job %q already registered", job.Name)
		}
	}

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval)
	return nil
}

// Start runs every job once right away and then on its interval, until ctx
// is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	slog.Info("Stopping cron scheduler...")
	cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(ctx, job)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	err := job.Fn(ctx)
	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		metrics.CronRunsTotal.WithLabelValues(job.Name, "error").Inc()
		return err
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	metrics.CronRunsTotal.WithLabelValues(job.Name, "success").Inc()
	return nil
}

// RunOnce runs every job once, in registration order, and returns the
// joined errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var errs []error
	for _, job := range jobs {
		if err := s.execute(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errors.Join(errs...)
}
