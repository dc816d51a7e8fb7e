package resolver

import (
	"model_gateway/internal/catalog"
	"model_gateway/internal/models"
	"model_gateway/internal/restrictions"
)

// FallbackSelector picks a permitted substitute when the requested model is
// unresolved or disallowed. Selection is fully deterministic: identical
// configuration and arguments always yield the same result.
type FallbackSelector struct {
	cat  *catalog.Catalog
	eval *restrictions.Evaluator
}

// NewFallbackSelector creates a selector over the catalog and allow-lists.
func NewFallbackSelector(cat *catalog.Catalog, eval *restrictions.Evaluator) *FallbackSelector {
	return &FallbackSelector{cat: cat, eval: eval}
}

// Select walks backends in declared priority order (skipping excludeBackend
// if non-empty and any backend with an empty allow-list), then each backend's
// allow-list in declaration order, and returns the first entry that exists in
// the catalog. The enabled and allowed checks are redundant by construction
// but both run, guarding against inconsistent configuration.
//
// ok == false means no backend has any usable model: a fatal configuration
// error for the whole gateway, not a per-request condition.
func (s *FallbackSelector) Select(excludeBackend string) (canonicalID, backend string, ok bool) {
	exclude := models.NormalizeModelName(excludeBackend)

	for _, b := range s.cat.Backends() {
		if exclude != "" && b.Name == exclude {
			continue
		}
		if !s.eval.BackendEnabled(b.Name) {
			continue
		}
		for _, id := range s.eval.AllowedModels(b.Name) {
			if !s.eval.IsAllowed(b.Name, id) {
				continue
			}
			// Allow-list entries may name models the catalog does not
			// carry (typos survive load with a warning); skip those.
			if canonical, found := s.cat.LookupCanonical(b.Name, id); found {
				return canonical, b.Name, true
			}
		}
	}
	return "", "", false
}
