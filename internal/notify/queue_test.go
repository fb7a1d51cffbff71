package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/client-portal/internal/observability"
)

func newTestQueue(size int) *Queue {
	return NewQueue(size, zap.NewNop(), observability.NewMetrics(prometheus.NewRegistry()))
}

func noopJob(kind string, delivered *atomic.Int32) Job {
	return Job{
		Kind:      kind,
		Recipient: "user@example.com",
		Send: func(context.Context) (Result, error) {
			if delivered != nil {
				delivered.Add(1)
			}
			return Result{Success: true, MessageID: "msg-1"}, nil
		},
	}
}

func TestQueueDeliversEnqueuedJobs(t *testing.T) {
	queue := newTestQueue(8)
	var delivered atomic.Int32

	assert.True(t, queue.Enqueue(noopJob("payment_receipt", &delivered)))
	assert.True(t, queue.Enqueue(noopJob("invoice_issued", &delivered)))

	queue.Start(context.Background())
	queue.Close()

	assert.EqualValues(t, 2, delivered.Load())
}

func TestQueueDropsWhenFull(t *testing.T) {
	// No drain worker running, so the buffer is the whole capacity.
	queue := newTestQueue(1)

	assert.True(t, queue.Enqueue(noopJob("payment_receipt", nil)))
	assert.False(t, queue.Enqueue(noopJob("payment_receipt", nil)), "a full queue drops, never blocks")
}

func TestQueueSwallowsSendFailures(t *testing.T) {
	queue := newTestQueue(8)

	queue.Enqueue(Job{
		Kind:      "payment_receipt",
		Recipient: "user@example.com",
		Send: func(context.Context) (Result, error) {
			return Result{}, errors.New("smtp unreachable")
		},
	})

	// Close waits for the drain; a failing send must not panic or hang.
	queue.Start(context.Background())
	queue.Close()
}
