package logging

import (
	"context"
	"time"

	"model_gateway/internal/models"
	"model_gateway/internal/queue"
	"model_gateway/internal/utils"
)

// BatchWriter persists one batch of audit records somewhere durable.
type BatchWriter interface {
	WriteBatch(records []*models.DispatchRecord) error
}

// AuditSink buffers dispatch records on a queue and drains them in batches
// through the configured writers. Enqueue never blocks the dispatch path
// beyond the queue's own buffering.
type AuditSink struct {
	queue       queue.Queue
	writers     []BatchWriter
	s3          *S3Writer // optional, nil when S3 auditing is disabled
	config      *queue.Config
	logger      *utils.Logger
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewAuditSink creates a sink draining q into the given writers. s3 may be
// nil. Call Start to begin draining and Shutdown to flush and stop.
func NewAuditSink(q queue.Queue, config *queue.Config, s3 *S3Writer, writers ...BatchWriter) *AuditSink {
	if config == nil {
		config = queue.DefaultConfig("audit")
	}
	return &AuditSink{
		queue:       q,
		writers:     writers,
		s3:          s3,
		config:      config,
		logger:      utils.NewLogger("audit-sink"),
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Enqueue implements Sink.
func (s *AuditSink) Enqueue(rec *models.DispatchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return s.queue.Enqueue(ctx, rec)
}

// Start launches the drain worker.
func (s *AuditSink) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *AuditSink) run(ctx context.Context) {
	defer close(s.stoppedChan)

	// Tie the dequeue context to the stop signal so Shutdown does not wait
	// out a full batch timeout.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-s.stopChan:
			s.logger.Info("Audit sink stopping")
			return
		case <-ctx.Done():
			s.logger.Info("Audit sink context cancelled")
			return
		default:
			s.processBatch(ctx)
		}
	}
}

func (s *AuditSink) processBatch(ctx context.Context) {
	records, err := s.queue.DequeueWithTimeout(ctx, s.config.BatchSize, s.config.BatchTimeout)
	if err != nil {
		if err == queue.ErrQueueClosed || ctx.Err() != nil {
			return
		}
		s.logger.Error("Failed to dequeue audit records", "error", err)
		time.Sleep(1 * time.Second) // Back off on error
		return
	}

	if len(records) == 0 {
		return
	}

	s.flush(ctx, records)
}

// flush writes one batch to every writer. A failing writer loses only its
// own copy of the batch; the others still get it.
func (s *AuditSink) flush(ctx context.Context, records []*models.DispatchRecord) {
	for _, w := range s.writers {
		if err := w.WriteBatch(records); err != nil {
			s.logger.Error("Audit writer failed", "error", err, "count", len(records))
		}
	}
	if s.s3 != nil {
		if _, err := s.s3.WriteBatch(ctx, records); err != nil {
			s.logger.Error("S3 audit upload failed", "error", err, "count", len(records))
		}
	}
}

// Shutdown stops the worker and drains whatever is still buffered.
func (s *AuditSink) Shutdown(ctx context.Context) error {
	close(s.stopChan)
	select {
	case <-s.stoppedChan:
	case <-ctx.Done():
		return ctx.Err()
	}

	// Final drain: short timeouts until the queue reports empty or the
	// shutdown context expires.
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		records, err := s.queue.DequeueWithTimeout(ctx, s.config.BatchSize, 100*time.Millisecond)
		if err != nil || len(records) == 0 {
			break
		}
		s.flush(ctx, records)
	}

	return s.queue.Close()
}
