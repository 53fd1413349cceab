package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/metrics"
)

var (
	ErrQueueFull = errors.New("processing queue is full")
	ErrClosed    = errors.New("processing queue is closed")
)

// Dispatcher decouples request handlers from the queue transport. Enqueue
// never blocks; Run forwards buffered jobs to the publisher.
type Dispatcher struct {
	publisher Publisher
	logger    log.LoggerService

	mutex  sync.RWMutex
	jobs   chan Job
	closed bool
	done   chan struct{}
}

func NewDispatcher(publisher Publisher, buffer int, logger log.LoggerService) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
		jobs:      make(chan Job, buffer),
		done:      make(chan struct{}),
	}
}

// Enqueue buffers job for delivery. A full buffer drops the job.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if d.closed {
		metrics.RecordQueueJob(metrics.ResultDropped)
		return ErrClosed
	}

	select {
	case d.jobs <- job:
		metrics.RecordQueueJob(metrics.ResultQueued)
		return nil
	default:
		metrics.RecordQueueJob(metrics.ResultDropped)
		d.logger.Warn("Dropping processing job for file %d: queue full", job.FileID)
		return ErrQueueFull
	}
}

// Run publishes buffered jobs until Close is called and the buffer drains,
// or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := d.publisher.Publish(ctx, job); err != nil {
				metrics.RecordQueueJob(metrics.ResultFailed)
				d.logger.Error("Failed to publish job for file %d: %v", job.FileID, err)
			}
		}
	}
}

// Close stops accepting jobs and waits for Run to drain the buffer.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mutex.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mutex.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
