package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"model_gateway/internal/gateway"
)

func TestHandleListModels(t *testing.T) {
	deps := testDependencies(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rr := httptest.NewRecorder()
	deps.handleListModels(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Backends []gateway.BackendListing `json:"backends"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Backends, 5)
	assert.Equal(t, "openai", resp.Backends[0].Backend)
	assert.True(t, resp.Backends[0].Enabled)
	assert.NotEmpty(t, resp.Backends[0].Models)
}

func TestHandleListModels_MethodNotAllowed(t *testing.T) {
	deps := testDependencies(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/models", nil)
	rr := httptest.NewRecorder()
	deps.handleListModels(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleHealth(t *testing.T) {
	deps := testDependencies(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	deps.handleHealth(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
