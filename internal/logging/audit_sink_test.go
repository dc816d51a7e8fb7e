package logging

import (
	"context"
	"sync"
	"testing"
	"time"

	"model_gateway/internal/models"
	"model_gateway/internal/queue"
)

// collectWriter gathers flushed batches for assertions.
type collectWriter struct {
	mu      sync.Mutex
	records []*models.DispatchRecord
}

func (w *collectWriter) WriteBatch(records []*models.DispatchRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, records...)
	return nil
}

func (w *collectWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.records)
}

func TestAuditSink_DrainsToWriters(t *testing.T) {
	config := queue.DefaultConfig("test")
	config.BatchSize = 10
	config.BatchTimeout = 50 * time.Millisecond

	q := queue.NewMemoryQueue(config)
	writer := &collectWriter{}
	sink := NewAuditSink(q, config, nil, writer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink.Start(ctx)

	for i := 0; i < 5; i++ {
		if err := sink.Enqueue(models.NewDispatchRecord("gpt-5", i)); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for writer.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("Expected 5 records flushed, got %d", writer.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := sink.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestAuditSink_ShutdownDrainsBuffered(t *testing.T) {
	config := queue.DefaultConfig("test")
	config.BatchSize = 10
	// Long timeout so the worker sits idle while we buffer records.
	config.BatchTimeout = time.Minute

	q := queue.NewMemoryQueue(config)
	writer := &collectWriter{}
	sink := NewAuditSink(q, config, nil, writer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink.Start(ctx)

	// Give the worker time to enter its blocking dequeue, then buffer
	// records it will only see during the shutdown drain.
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := sink.Enqueue(models.NewDispatchRecord("o3", i)); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := sink.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if writer.count() != 3 {
		t.Errorf("Expected 3 records after shutdown drain, got %d", writer.count())
	}
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink()
	if err := sink.Enqueue(models.NewDispatchRecord("gpt-5", 0)); err != nil {
		t.Errorf("NoopSink.Enqueue failed: %v", err)
	}
}
