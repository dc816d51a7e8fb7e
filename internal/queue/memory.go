package queue

import (
	"context"
	"sync"
	"time"

	"model_gateway/internal/models"
)

// MemoryQueue implements Queue using a buffered channel.
type MemoryQueue struct {
	records chan *models.DispatchRecord
	mu      sync.RWMutex
	closed  bool
	config  *Config
}

// NewMemoryQueue creates a new in-memory queue.
func NewMemoryQueue(config *Config) *MemoryQueue {
	if config == nil {
		config = DefaultConfig("memory")
	}

	return &MemoryQueue{
		records: make(chan *models.DispatchRecord, config.BatchSize*10), // Buffer for 10 batches
		config:  config,
	}
}

func (q *MemoryQueue) isClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Enqueue adds a record to the queue. When the buffer is full it retries
// until space frees up, the context is cancelled or the queue closes. The
// read lock is held only for each non-blocking send attempt, so a full
// queue never blocks Close and a send on the closed channel cannot happen.
func (q *MemoryQueue) Enqueue(ctx context.Context, rec *models.DispatchRecord) error {
	for {
		q.mu.RLock()
		if q.closed {
			q.mu.RUnlock()
			return ErrQueueClosed
		}
		select {
		case q.records <- rec:
			q.mu.RUnlock()
			return nil
		default:
			q.mu.RUnlock()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Dequeue retrieves records from the queue, blocking for the first one.
// A nil receive means the queue was closed underneath us.
func (q *MemoryQueue) Dequeue(ctx context.Context, maxItems int) ([]*models.DispatchRecord, error) {
	if q.isClosed() {
		return nil, ErrQueueClosed
	}

	var records []*models.DispatchRecord

	select {
	case rec, ok := <-q.records:
		if !ok {
			return nil, ErrQueueClosed
		}
		records = append(records, rec)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return q.drainMore(records, maxItems), nil
}

// DequeueWithTimeout retrieves records, returning an empty slice on timeout.
func (q *MemoryQueue) DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]*models.DispatchRecord, error) {
	if q.isClosed() {
		return nil, ErrQueueClosed
	}

	var records []*models.DispatchRecord
	deadline := time.After(timeout)

	select {
	case rec, ok := <-q.records:
		if !ok {
			return nil, ErrQueueClosed
		}
		records = append(records, rec)
	case <-deadline:
		return records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return q.drainMore(records, maxItems), nil
}

// drainMore collects buffered records without blocking, up to maxItems.
func (q *MemoryQueue) drainMore(records []*models.DispatchRecord, maxItems int) []*models.DispatchRecord {
	for len(records) < maxItems {
		select {
		case rec, ok := <-q.records:
			if !ok {
				return records
			}
			records = append(records, rec)
		default:
			return records
		}
	}
	return records
}

// Length returns the current queue length.
func (q *MemoryQueue) Length(ctx context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return 0, ErrQueueClosed
	}
	return len(q.records), nil
}

// Close shuts down the queue. Blocked Dequeue callers observe the closed
// channel; buffered records are still drained by subsequent receives.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.records)
	return nil
}
