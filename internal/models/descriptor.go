package models

import "strings"

//
// Backend & ModelDescriptor (provider catalog entries)
//

// Backend is one model-serving vendor/API surface. Backends are kept in
// declaration order; earlier backends win ties during resolution and are
// preferred during fallback.
type Backend struct {
	Name   string            `json:"name" yaml:"name"`
	Models []ModelDescriptor `json:"models" yaml:"models"`
}

// ModelDescriptor describes one concrete model on one backend.
type ModelDescriptor struct {
	CanonicalID   string   `json:"canonical_id" yaml:"canonical_id"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	ContextWindow int      `json:"context_window" yaml:"context_window"`
	Backend       string   `json:"backend,omitempty" yaml:"-"`
}

// NormalizeModelName lowercases and trims a caller-supplied model name so
// that "GPT-5 " and "gpt-5" resolve identically.
func NormalizeModelName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
