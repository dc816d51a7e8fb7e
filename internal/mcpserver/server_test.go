package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"model_gateway/internal/admission"
	"model_gateway/internal/catalog"
	"model_gateway/internal/gateway"
	"model_gateway/internal/models"
	"model_gateway/internal/restrictions"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Builtin()
	assert.NoError(t, err)

	dispatcher := gateway.NewDispatcher(
		cat,
		restrictions.New(restrictions.DefaultProfile()),
		admission.NewController(admission.DefaultInputShare),
		nil,
	)
	return NewServer(dispatcher, "test")
}

func TestHandleDispatch(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleDispatch(context.Background(), nil, &DispatchInput{
		Model:                "o3",
		EstimatedInputTokens: 150_000,
	})
	assert.NoError(t, err)

	resp, ok := out.(models.DispatchResponse)
	assert.True(t, ok)
	assert.Equal(t, "o3", resp.ResolvedModel)
	assert.True(t, resp.Admitted)
	assert.Equal(t, 160_000, resp.InputBudget)
}

func TestHandleDispatch_EstimateFromText(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleDispatch(context.Background(), nil, &DispatchInput{
		Model:     "gpt5",
		InputText: "a short prompt",
	})
	assert.NoError(t, err)

	resp := out.(models.DispatchResponse)
	assert.Equal(t, "gpt-5", resp.ResolvedModel)
	assert.True(t, resp.Admitted)
}

func TestHandleDispatch_Validation(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleDispatch(context.Background(), nil, &DispatchInput{})
	assert.Error(t, err)

	_, _, err = s.handleDispatch(context.Background(), nil, &DispatchInput{
		Model:                "o3",
		EstimatedInputTokens: -5,
	})
	assert.Error(t, err)
}

func TestHandleListModels(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleListModels(context.Background(), nil, &ListModelsInput{})
	assert.NoError(t, err)

	listing, ok := out.(ListModelsOutput)
	assert.True(t, ok)
	assert.Len(t, listing.Backends, 5)
	assert.Equal(t, "openai", listing.Backends[0].Backend)
}
