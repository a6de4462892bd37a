package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobScheduler submits its registered jobs to the pool on a fixed interval.
type JobScheduler struct {
	Name   string
	Ticker *time.Ticker
	Pool   *WorkingPool

	mu   sync.RWMutex
	jobs []Job
}

func NewJobScheduler(name string, interval time.Duration, pool *WorkingPool) *JobScheduler {
	return &JobScheduler{
		Name:   name,
		Ticker: time.NewTicker(interval),
		Pool:   pool,
	}
}

func (s *JobScheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *JobScheduler) Run(ctx context.Context) {
	slog.Info("scheduler running", "name", s.Name)
	defer s.Ticker.Stop()

	for {
		select {
		case <-s.Ticker.C:
			s.mu.RLock()
			jobsToRun := make([]Job, len(s.jobs))
			copy(jobsToRun, s.jobs)
			s.mu.RUnlock()

			slog.Info("scheduler tick", "name", s.Name, "jobs", len(jobsToRun))
			for _, job := range jobsToRun {
				s.Pool.SubmitJob(job)
			}

		case <-ctx.Done():
			slog.Info("scheduler shutting down", "name", s.Name)
			return
		}
	}
}
