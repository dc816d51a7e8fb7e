package models

import (
	"time"

	"github.com/google/uuid"
)

// DispatchRecord is the audit entry written for every dispatch decision. It is
// enqueued by the gateway and drained asynchronously into the audit sinks
// (JSONL file, S3 batches).
type DispatchRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Requested        string `json:"requested_model"`
	ResolvedModel    string `json:"resolved_model,omitempty"`
	Backend          string `json:"backend,omitempty"`
	FallbackOccurred bool   `json:"fallback_occurred"`
	Warning          string `json:"warning,omitempty"`

	Admitted        bool   `json:"admitted"`
	InputBudget     int    `json:"input_budget,omitempty"`
	OutputBudget    int    `json:"output_budget,omitempty"`
	EstimatedTokens int    `json:"estimated_tokens"`
	RejectReason    string `json:"reject_reason,omitempty"`

	// Error is set only for terminal configuration failures (fallback
	// exhaustion); ordinary admission rejects are not errors.
	Error string `json:"error,omitempty"`

	GatewayMicros int64 `json:"gateway_us"`
}

// NewDispatchRecord stamps a fresh audit record for one request.
func NewDispatchRecord(requested string, estimatedTokens int) *DispatchRecord {
	return &DispatchRecord{
		ID:              uuid.New(),
		Timestamp:       time.Now().UTC(),
		Requested:       requested,
		EstimatedTokens: estimatedTokens,
	}
}
