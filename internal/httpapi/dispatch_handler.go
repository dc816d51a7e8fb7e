package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"model_gateway/internal/admission"
	"model_gateway/internal/gateway"
)

// dispatchRequest is the inbound payload. Callers either pass a token
// estimate directly or send raw input text to be estimated.
type dispatchRequest struct {
	Model                string `json:"model"`
	EstimatedInputTokens int    `json:"estimated_input_tokens"`
	InputText            string `json:"input_text,omitempty"`

	// Optional scoping, see gateway.Options.
	BackendScope   string `json:"backend_scope,omitempty"`
	PinToScope     bool   `json:"pin_to_scope,omitempty"`
	ExcludeBackend string `json:"exclude_backend,omitempty"`
}

// handleDispatch is the entry point for resolve-then-admit calls.
//
// Flow:
//  1. Validate method
//  2. Decode JSON body
//  3. Derive the token estimate
//  4. Dispatch
//  5. Return the flat result (or a distinct 503 on fallback exhaustion)
func (d *Dependencies) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Model == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}
	if req.EstimatedInputTokens < 0 {
		writeJSONError(w, http.StatusBadRequest, "estimated_input_tokens must be non-negative")
		return
	}

	estimate := req.EstimatedInputTokens
	if estimate == 0 && req.InputText != "" {
		estimate = admission.EstimateTokens(req.InputText)
	}

	result, err := d.Dispatcher.DispatchWithOptions(r.Context(), req.Model, estimate, gateway.Options{
		BackendScope:   req.BackendScope,
		PinToScope:     req.PinToScope,
		ExcludeBackend: req.ExcludeBackend,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNoAllowedModels) {
			// Deployment configuration error: no request can succeed
			// until the allow-lists are fixed.
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result.Flat())
}
