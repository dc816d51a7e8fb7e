package catalog

import "model_gateway/internal/models"

// Builtin returns the compiled-in catalog. It mirrors the deployment this
// gateway fronts: two first-party APIs (openai, google), one aggregator
// (openrouter) and two secondary APIs (xai, dial), in fallback priority order.
func Builtin() (*Catalog, error) {
	return New(BuiltinBackends())
}

// BuiltinBackends returns the raw backend declarations behind Builtin.
// Exposed so tests and the config layer can build variants of it.
func BuiltinBackends() []models.Backend {
	return []models.Backend{
		{
			Name: "openai",
			Models: []models.ModelDescriptor{
				{CanonicalID: "gpt-5", Aliases: []string{"gpt5", "gpt-5-chat-latest"}, ContextWindow: 400_000},
				{CanonicalID: "o3", ContextWindow: 200_000},
				{CanonicalID: "o3-pro", Aliases: []string{"o3-pro-2025-06-10"}, ContextWindow: 200_000},
				{CanonicalID: "o3-deep-research", Aliases: []string{"o3-deep", "deep-research"}, ContextWindow: 200_000},
				{CanonicalID: "o4-mini", Aliases: []string{"mini"}, ContextWindow: 200_000},
			},
		},
		{
			Name: "google",
			Models: []models.ModelDescriptor{
				{CanonicalID: "gemini-2.5-pro", Aliases: []string{"pro"}, ContextWindow: 1_000_000},
				{CanonicalID: "gemini-2.5-flash", Aliases: []string{"gemini-flash"}, ContextWindow: 1_000_000},
			},
		},
		{
			Name: "openrouter",
			Models: []models.ModelDescriptor{
				{CanonicalID: "openai/gpt-5", ContextWindow: 400_000},
				{CanonicalID: "openai/o3", ContextWindow: 200_000},
				{CanonicalID: "openai/o3-pro", ContextWindow: 200_000},
				{CanonicalID: "openai/o3-deep-research", ContextWindow: 200_000},
				{CanonicalID: "google/gemini-2.5-pro", ContextWindow: 1_000_000},
				{CanonicalID: "anthropic/claude-opus-4.1", Aliases: []string{"opus", "claude-opus"}, ContextWindow: 200_000},
			},
		},
		{
			Name: "xai",
			Models: []models.ModelDescriptor{
				{CanonicalID: "grok-3", Aliases: []string{"grok"}, ContextWindow: 131_072},
				{CanonicalID: "grok-3-fast", Aliases: []string{"grok-fast"}, ContextWindow: 131_072},
			},
		},
		{
			Name: "dial",
			Models: []models.ModelDescriptor{
				{CanonicalID: "dial-gpt-5", ContextWindow: 400_000},
				{CanonicalID: "dial-gemini-2.5-pro", ContextWindow: 1_000_000},
			},
		},
	}
}
