package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Job is one unit of background work.
type Job func(ctx context.Context) error

// WorkingPool fans submitted jobs out to a fixed set of worker goroutines.
type WorkingPool struct {
	NumWorkers int

	// mu orders submissions against shutdown: SubmitJob sends under the
	// read lock while Start closes jobChan under the write lock, so a late
	// submission can never send on the closed channel.
	mu      sync.RWMutex
	jobChan chan Job
	closed  bool
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	return &WorkingPool{
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
	}
}

// SubmitJob enqueues a job, dropping it when the queue is full so a slow
// worker never blocks the scheduler tick. Jobs submitted after shutdown are
// dropped.
func (p *WorkingPool) SubmitJob(job Job) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		slog.Warn("worker pool stopped, dropping job")
		return
	}
	select {
	case p.jobChan <- job:
	default:
		slog.Warn("worker pool queue full, dropping job")
	}
}

func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup
	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()

	p.mu.Lock()
	p.closed = true
	close(p.jobChan)
	p.mu.Unlock()

	workerWg.Wait()
	slog.Info("worker pool stopped")
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered in background job", "worker_id", workerID, "panic", r)
		}
	}()

	if err := job(ctx); err != nil {
		slog.Warn("background job failed", "worker_id", workerID, "error", err)
	}
}
