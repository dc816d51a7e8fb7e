package models

//
// Per-request transient values. Created during a single dispatch and consumed
// once by the caller; nothing here is persisted or shared across requests.
//

// ResolutionResult describes how a requested model name was mapped to a
// concrete catalog entry, including any fallback substitution.
type ResolutionResult struct {
	Requested        string `json:"requested"`
	ResolvedModel    string `json:"resolved_model"`
	Backend          string `json:"backend"`
	FallbackOccurred bool   `json:"fallback_occurred"`
	Warning          string `json:"warning,omitempty"`
}

// AdmissionVerdict is the outcome of sizing a prompt against the resolved
// model's context window.
type AdmissionVerdict struct {
	Admitted        bool   `json:"admitted"`
	InputBudget     int    `json:"input_budget"`
	OutputBudget    int    `json:"output_budget"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Reason          string `json:"reason,omitempty"`
}

// DispatchResponse is the flat wire shape returned by the HTTP and MCP
// surfaces. Warning and RejectReason serialize as null when absent.
type DispatchResponse struct {
	ResolvedModel    string  `json:"resolvedModel"`
	Backend          string  `json:"backend"`
	FallbackOccurred bool    `json:"fallbackOccurred"`
	Warning          *string `json:"warning"`
	Admitted         bool    `json:"admitted"`
	InputBudget      int     `json:"inputBudget"`
	OutputBudget     int     `json:"outputBudget"`
	RejectReason     *string `json:"rejectReason"`
}

// FlattenDispatch folds a resolution and a verdict into the wire shape.
func FlattenDispatch(res ResolutionResult, verdict AdmissionVerdict) DispatchResponse {
	resp := DispatchResponse{
		ResolvedModel:    res.ResolvedModel,
		Backend:          res.Backend,
		FallbackOccurred: res.FallbackOccurred,
		Admitted:         verdict.Admitted,
		InputBudget:      verdict.InputBudget,
		OutputBudget:     verdict.OutputBudget,
	}
	if res.Warning != "" {
		warning := res.Warning
		resp.Warning = &warning
	}
	if verdict.Reason != "" {
		reason := verdict.Reason
		resp.RejectReason = &reason
	}
	return resp
}
