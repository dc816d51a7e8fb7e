// Package logging persists the gateway's dispatch audit trail: every
// resolution/admission decision becomes a DispatchRecord that is buffered on
// a queue and flushed in batches to a local JSONL file and, optionally, S3.
package logging

import "model_gateway/internal/models"

// Sink receives audit records from the gateway. Implementations must not
// block the dispatch path.
type Sink interface {
	Enqueue(rec *models.DispatchRecord) error
}

// NoopSink discards records; used when auditing is disabled and in tests.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Enqueue(rec *models.DispatchRecord) error {
	return nil
}
