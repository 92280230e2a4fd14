package conversation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
)

// UpdateJob is one history append scheduled after a response was produced.
type UpdateJob struct {
	SessionID string
	User      model.Turn
	Assistant model.Turn
}

// UpdaterConfig configures the background worker pool.
type UpdaterConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Updater applies history appends on a fixed pool of workers.
// Enqueue never blocks and never reports failure to the caller.
type Updater struct {
	store      Appender
	l          log.Logger
	jobs       chan UpdateJob
	jobTimeout time.Duration
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewUpdater starts cfg.Workers workers draining a queue of cfg.QueueSize jobs.
func NewUpdater(l log.Logger, store Appender, cfg UpdaterConfig) *Updater {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultUpdaterWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultUpdaterQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultUpdaterJobTimeout
	}

	u := &Updater{
		store:      store,
		l:          l,
		jobs:       make(chan UpdateJob, cfg.QueueSize),
		jobTimeout: cfg.JobTimeout,
	}
	u.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go u.work(i)
	}
	return u
}

// Enqueue schedules job and reports whether it was accepted.
// A full queue or a closed updater drops the job with a warning.
func (u *Updater) Enqueue(ctx context.Context, job UpdateJob) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.closed {
		u.dropped.Add(1)
		u.l.Warnf(ctx, "%s.Updater.Enqueue: updater closed, dropping history update", LogPrefix)
		return false
	}

	select {
	case u.jobs <- job:
		return true
	default:
		u.dropped.Add(1)
		u.l.Warnf(ctx, "%s.Updater.Enqueue: queue full, dropping history update", LogPrefix)
		return false
	}
}

// Close stops intake and waits for queued jobs until ctx is done.
func (u *Updater) Close(ctx context.Context) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	close(u.jobs)
	u.mu.Unlock()

	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped is the number of jobs rejected by Enqueue.
func (u *Updater) Dropped() int64 { return u.dropped.Load() }

// Failed is the number of accepted jobs whose append returned an error or panicked.
func (u *Updater) Failed() int64 { return u.failed.Load() }

func (u *Updater) work(id int) {
	defer u.wg.Done()
	for job := range u.jobs {
		u.apply(id, job)
	}
}

func (u *Updater) apply(workerID int, job UpdateJob) {
	ctx, cancel := context.WithTimeout(log.WithSessionID(context.Background(), job.SessionID), u.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			u.failed.Add(1)
			u.l.Errorf(ctx, "%s.Updater: worker=%d recovered from panic: %v", LogPrefix, workerID, r)
		}
	}()

	if err := u.store.AppendPair(ctx, job.SessionID, job.User, job.Assistant); err != nil {
		u.failed.Add(1)
		u.l.Warnf(ctx, "%s.Updater: worker=%d append failed: %v", LogPrefix, workerID, err)
	}
}
