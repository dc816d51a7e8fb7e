// Package queue buffers dispatch audit records between the gateway and the
// audit sinks. Two backends:
//
//  1. Memory queue (channel-based): no persistence, zero external
//     dependencies, fine for standalone deployments.
//  2. Redis queue (list-based): persistent across restarts, supports
//     multiple gateway pods draining into shared sinks.
package queue

import (
	"context"
	"time"

	"model_gateway/internal/models"
)

// Queue is the audit record buffer between dispatch and the sink workers.
type Queue interface {
	// Enqueue adds a record to the queue.
	Enqueue(ctx context.Context, rec *models.DispatchRecord) error

	// Dequeue retrieves up to maxItems records, blocking until at least one
	// is available or the context is cancelled.
	Dequeue(ctx context.Context, maxItems int) ([]*models.DispatchRecord, error)

	// DequeueWithTimeout retrieves up to maxItems records, returning an
	// empty slice if none arrive before the timeout.
	DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]*models.DispatchRecord, error)

	// Length returns the current queue length.
	Length(ctx context.Context) (int, error)

	// Close shuts down the queue.
	Close() error
}

// Config holds queue configuration.
type Config struct {
	// BatchSize is the maximum number of records handed to a sink at once.
	BatchSize int

	// BatchTimeout is how long a sink worker waits before flushing a
	// partial batch.
	BatchTimeout time.Duration

	// UseRedis selects the Redis backend over the in-memory one.
	UseRedis bool

	// RedisAddr, RedisPassword and RedisDB configure the Redis backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// QueueName is the name/key for the queue.
	QueueName string
}

// DefaultConfig returns default queue configuration.
func DefaultConfig(queueName string) *Config {
	return &Config{
		BatchSize:    100,
		BatchTimeout: 5 * time.Second,
		UseRedis:     false,
		QueueName:    queueName,
	}
}

// New builds the queue selected by config.
func New(config *Config) (Queue, error) {
	if config != nil && config.UseRedis {
		return NewRedisQueue(config)
	}
	return NewMemoryQueue(config), nil
}
