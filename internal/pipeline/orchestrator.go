package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/wikiguess/internal/config"
	"github.com/dgallion1/wikiguess/internal/game"
)

var (
	ErrQueueFull = errors.New("job queue is full")
	ErrStopped   = errors.New("pipeline is stopped")
)

// Orchestrator runs the game load pipeline.
type Orchestrator struct {
	jobs    *JobStore
	games   *game.Store
	queue   chan *Job
	fetcher Fetcher
	log     *slog.Logger
	cfg     config.Config

	// CleanupInterval is how often expired jobs and games are evicted.
	CleanupInterval time.Duration

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, fetcher Fetcher, games *game.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:            NewJobStore(cfg.JobTTL),
		games:           games,
		queue:           make(chan *Job, cfg.MaxQueueSize),
		fetcher:         fetcher,
		log:             log,
		cfg:             cfg,
		CleanupInterval: 5 * time.Minute,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.fetcher, o.games, o.log.With("worker", i), o.cfg.MaxFetchRetries, o.cfg.MaxContentBytes)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				jobs := o.jobs.Cleanup()
				games := o.games.Cleanup()
				if jobs > 0 || games > 0 {
					o.log.Info("evicted expired state", "jobs", jobs, "games", games)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Queued jobs that have not
// started are abandoned.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing. It fails immediately when the
// queue is full.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
