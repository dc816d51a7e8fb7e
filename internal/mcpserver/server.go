// Package mcpserver exposes the dispatch facade to tool-calling agents over
// the Model Context Protocol, the transport the calling tools already speak.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"model_gateway/internal/admission"
	"model_gateway/internal/gateway"
	"model_gateway/internal/utils"
)

// Server wraps the MCP server around a dispatcher.
type Server struct {
	dispatcher *gateway.Dispatcher
	mcpServer  *mcp.Server
	logger     *utils.Logger
}

// DispatchInput names the desired model and sizes the prompt.
type DispatchInput struct {
	Model                string `json:"model" jsonschema:"model name or alias to use"`
	EstimatedInputTokens int    `json:"estimated_input_tokens,omitempty" jsonschema:"estimated prompt size in tokens"`
	InputText            string `json:"input_text,omitempty" jsonschema:"raw prompt text to estimate when no token count is available"`
	BackendScope         string `json:"backend_scope,omitempty" jsonschema:"restrict resolution to one backend"`
}

// ListModelsInput has no parameters.
type ListModelsInput struct{}

// ListModelsOutput reports the permitted models per backend.
type ListModelsOutput struct {
	Backends []gateway.BackendListing `json:"backends"`
}

// NewServer builds the MCP server and registers the gateway tools.
func NewServer(dispatcher *gateway.Dispatcher, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		logger:     utils.NewLogger("mcp"),
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "model-gateway",
		Version: version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dispatch_model",
		Description: "Resolve a model name against the provider catalog and restrictions, substituting a permitted model if needed, and check the prompt fits the model's token budget.",
	}, s.handleDispatch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_models",
		Description: "List the models the current restrictions permit, per backend in priority order.",
	}, s.handleListModels)

	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server starting on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleDispatch(ctx context.Context, req *mcp.CallToolRequest, input *DispatchInput) (*mcp.CallToolResult, any, error) {
	if input.Model == "" {
		return nil, nil, fmt.Errorf("model is required")
	}
	if input.EstimatedInputTokens < 0 {
		return nil, nil, fmt.Errorf("estimated_input_tokens must be non-negative")
	}

	estimate := input.EstimatedInputTokens
	if estimate == 0 && input.InputText != "" {
		estimate = admission.EstimateTokens(input.InputText)
	}

	result, err := s.dispatcher.DispatchWithOptions(ctx, input.Model, estimate, gateway.Options{
		BackendScope: input.BackendScope,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNoAllowedModels) {
			return nil, nil, fmt.Errorf("gateway configuration error: %w", err)
		}
		return nil, nil, err
	}

	return nil, result.Flat(), nil
}

func (s *Server) handleListModels(ctx context.Context, req *mcp.CallToolRequest, input *ListModelsInput) (*mcp.CallToolResult, any, error) {
	return nil, ListModelsOutput{Backends: s.dispatcher.ListAvailableModels()}, nil
}
