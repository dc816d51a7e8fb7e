package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"model_gateway/internal/models"
)

// RedisQueue implements Queue using a Redis list.
type RedisQueue struct {
	client *redis.Client
	config *Config
	qKey   string
}

// NewRedisQueue creates a new Redis-backed queue and verifies connectivity.
func NewRedisQueue(config *Config) (*RedisQueue, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQueue{
		client: client,
		config: config,
		qKey:   fmt.Sprintf("audit:%s", config.QueueName),
	}, nil
}

// NewRedisQueueWithClient wraps an existing client; used by tests.
func NewRedisQueueWithClient(client *redis.Client, config *Config) *RedisQueue {
	return &RedisQueue{
		client: client,
		config: config,
		qKey:   fmt.Sprintf("audit:%s", config.QueueName),
	}
}

// Enqueue adds a record to the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, rec *models.DispatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := q.client.RPush(ctx, q.qKey, data).Err(); err != nil {
		return fmt.Errorf("failed to push to Redis: %w", err)
	}

	return nil
}

// Dequeue retrieves records from the queue, blocking for the first one.
func (q *RedisQueue) Dequeue(ctx context.Context, maxItems int) ([]*models.DispatchRecord, error) {
	result, err := q.client.BLPop(ctx, 0, q.qKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to pop from Redis: %w", err)
	}

	// result[0] is the key, result[1] is the value.
	records, err := q.decode(result[1], nil)
	if err != nil {
		return nil, err
	}

	return q.drainMore(ctx, records, maxItems), nil
}

// DequeueWithTimeout retrieves records, returning an empty slice on timeout.
func (q *RedisQueue) DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]*models.DispatchRecord, error) {
	result, err := q.client.BLPop(ctx, timeout, q.qKey).Result()
	if err == redis.Nil {
		return []*models.DispatchRecord{}, nil // Timeout, no records
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop from Redis: %w", err)
	}

	records, err := q.decode(result[1], nil)
	if err != nil {
		return nil, err
	}

	return q.drainMore(ctx, records, maxItems), nil
}

// drainMore pops additional records without blocking, up to maxItems.
// Decode failures and transient errors end the drain; whatever was collected
// so far is returned.
func (q *RedisQueue) drainMore(ctx context.Context, records []*models.DispatchRecord, maxItems int) []*models.DispatchRecord {
	for len(records) < maxItems {
		result, err := q.client.LPop(ctx, q.qKey).Result()
		if err != nil {
			return records
		}
		more, err := q.decode(result, records)
		if err != nil {
			return records
		}
		records = more
	}
	return records
}

func (q *RedisQueue) decode(payload string, records []*models.DispatchRecord) ([]*models.DispatchRecord, error) {
	var rec models.DispatchRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return records, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return append(records, &rec), nil
}

// Length returns the current queue length.
func (q *RedisQueue) Length(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.qKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return int(n), nil
}

// Close shuts down the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
