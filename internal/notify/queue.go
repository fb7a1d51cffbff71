package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/client-portal/internal/observability"
)

// Job is one pending notification dispatch.
type Job struct {
	Kind      string
	Recipient string
	Send      func(ctx context.Context) (Result, error)
}

// Queue decouples notification dispatch from the mutations that
// trigger it. Enqueue never blocks and never fails the caller; a full
// queue drops the job. Delivery is at-most-once, best-effort: failures
// are logged and counted, never retried.
type Queue struct {
	jobs    chan Job
	logger  *zap.Logger
	metrics *observability.Metrics
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewQueue builds a queue with the given buffer size.
func NewQueue(size int, logger *zap.Logger, metrics *observability.Metrics) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{
		jobs:    make(chan Job, size),
		logger:  logger,
		metrics: metrics,
	}
}

// Enqueue queues a job for delivery. Returns false when the job was
// dropped because the queue is full.
func (q *Queue) Enqueue(job Job) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		q.logger.Warn("notification queue full, dropping",
			zap.String("kind", job.Kind),
			zap.String("recipient", job.Recipient))
		q.metrics.RecordNotification(job.Kind, "dropped")
		return false
	}
}

// Start launches the drain worker. It runs until Close is called and
// the channel is exhausted.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for job := range q.jobs {
			q.deliver(ctx, job)
		}
	}()
}

func (q *Queue) deliver(ctx context.Context, job Job) {
	result, err := job.Send(ctx)
	if err != nil {
		q.logger.Warn("notification failed",
			zap.String("kind", job.Kind),
			zap.String("recipient", job.Recipient),
			zap.Error(err))
		q.metrics.RecordNotification(job.Kind, "failed")
		return
	}
	q.logger.Info("notification sent",
		zap.String("kind", job.Kind),
		zap.String("recipient", job.Recipient),
		zap.String("message_id", result.MessageID))
	q.metrics.RecordNotification(job.Kind, "sent")
}

// Close stops accepting jobs and waits for in-flight deliveries.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.jobs)
	})
	q.wg.Wait()
}
