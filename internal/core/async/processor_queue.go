package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// CardProcessor is the work each job runs.
type CardProcessor interface {
	ProcessCard(ctx context.Context, files ingest.CardFiles) (*entity.BusinessCard, error)
}

type ProcessorQueue struct {
	proc    CardProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	onDone  func(Job, *entity.BusinessCard, error)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithResultHook is called from the worker after each job.
func WithResultHook(fn func(Job, *entity.BusinessCard, error)) Option {
	return func(q *ProcessorQueue) { q.onDone = fn }
}

func NewProcessorQueue(proc CardProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					card, err := q.proc.ProcessCard(ctx, job.Card)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "card", job.Card.Key,
							"kind", common.KindOf(err), "error", err)
					} else {
						q.logger.Info("processed card", "worker_id", workerID, "card", job.Card.Key, "card_id", card.ID,
							"wait_ms", time.Since(job.SubmittedAt).Milliseconds())
					}
					if q.onDone != nil {
						q.onDone(job, card, err)
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue blocks while the queue is full, until ctx ends.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "card", job.Card.Key)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued card for processing", "card", job.Card.Key)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "card", job.Card.Key)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
