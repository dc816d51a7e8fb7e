package restrictions

import (
	"os"
	"strings"
)

// Environment variables carrying per-backend allow-lists, comma-separated.
// Example: OPENAI_ALLOWED_MODELS=gpt-5,o3,o3-pro
var envVars = map[string]string{
	"openai":     "OPENAI_ALLOWED_MODELS",
	"google":     "GOOGLE_ALLOWED_MODELS",
	"openrouter": "OPENROUTER_ALLOWED_MODELS",
	"xai":        "XAI_ALLOWED_MODELS",
	"dial":       "DIAL_ALLOWED_MODELS",
}

// DefaultProfile is the allow-list configuration used when no restriction
// environment variables are set: the approved production models on openai,
// google and openrouter; xai and dial fully disabled.
func DefaultProfile() map[string][]string {
	return map[string][]string{
		"openai": {"gpt-5", "o3", "o3-pro", "o3-deep-research"},
		"google": {"gemini-2.5-pro"},
		"openrouter": {
			"openai/gpt-5",
			"openai/o3",
			"openai/o3-pro",
			"openai/o3-deep-research",
			"google/gemini-2.5-pro",
			"anthropic/claude-opus-4.1",
		},
		"xai":  {},
		"dial": {},
	}
}

// FromEnv reads the *_ALLOWED_MODELS variables. When none of them is set it
// falls back to DefaultProfile. When at least one is set, the environment is
// taken as the complete restriction configuration: backends without a
// variable get an empty list and are therefore disabled.
func FromEnv() map[string][]string {
	any := false
	for _, envVar := range envVars {
		if _, ok := os.LookupEnv(envVar); ok {
			any = true
			break
		}
	}
	if !any {
		return DefaultProfile()
	}

	lists := make(map[string][]string, len(envVars))
	for backend, envVar := range envVars {
		lists[backend] = ParseList(os.Getenv(envVar))
	}
	return lists
}

// ParseList splits a comma-separated allow-list, trimming and lowercasing
// entries and dropping empties.
func ParseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		cleaned := strings.ToLower(strings.TrimSpace(part))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
