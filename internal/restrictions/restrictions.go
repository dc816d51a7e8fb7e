// Package restrictions holds the per-backend allow-lists that decide which
// catalog models may actually be used. The lists are loaded once at startup
// (environment variables, a builtin profile, or the database) and are
// immutable afterwards; an empty list disables a backend entirely.
package restrictions

import (
	"model_gateway/internal/catalog"
	"model_gateway/internal/models"
	"model_gateway/internal/utils"
)

// Evaluator answers "is canonical model X permitted on backend Y". It is a
// pure predicate over immutable configuration: no wildcards, no negative
// lists, absence from a non-empty list is denial.
type Evaluator struct {
	// ordered preserves the declaration order of each allow-list; the
	// fallback selector depends on it for determinism.
	ordered map[string][]string
	members map[string]map[string]struct{}
}

// New builds an evaluator from per-backend allow-lists. Entries are
// normalized (trimmed, lowercased) and de-duplicated preserving first
// occurrence. A backend missing from the map is disabled, same as a backend
// mapped to an empty list.
func New(allowed map[string][]string) *Evaluator {
	e := &Evaluator{
		ordered: make(map[string][]string, len(allowed)),
		members: make(map[string]map[string]struct{}, len(allowed)),
	}
	for backend, list := range allowed {
		name := models.NormalizeModelName(backend)
		set := make(map[string]struct{}, len(list))
		order := make([]string, 0, len(list))
		for _, entry := range list {
			id := models.NormalizeModelName(entry)
			if id == "" {
				continue
			}
			if _, dup := set[id]; dup {
				continue
			}
			set[id] = struct{}{}
			order = append(order, id)
		}
		e.ordered[name] = order
		e.members[name] = set
	}
	return e
}

// NewWithCatalog builds an evaluator like New, additionally rewriting
// allow-list entries that are catalog aliases to their canonical ids, so
// "pro" in an allow-list permits gemini-2.5-pro the same way a request for
// "pro" resolves to it. Entries unknown to the catalog are kept verbatim for
// ValidateAgainstCatalog to flag.
func NewWithCatalog(allowed map[string][]string, cat *catalog.Catalog) *Evaluator {
	canonicalized := make(map[string][]string, len(allowed))
	for backend, list := range allowed {
		name := models.NormalizeModelName(backend)
		entries := make([]string, 0, len(list))
		for _, entry := range list {
			id := models.NormalizeModelName(entry)
			if id == "" {
				continue
			}
			if canonical, ok := cat.LookupAlias(name, id); ok {
				entries = append(entries, canonical)
				continue
			}
			entries = append(entries, id)
		}
		canonicalized[backend] = entries
	}
	return New(canonicalized)
}

// IsAllowed reports whether canonicalID is permitted on backend. An unknown
// backend and a backend with an empty allow-list are both disabled.
func (e *Evaluator) IsAllowed(backend, canonicalID string) bool {
	set, ok := e.members[models.NormalizeModelName(backend)]
	if !ok || len(set) == 0 {
		return false
	}
	_, allowed := set[models.NormalizeModelName(canonicalID)]
	return allowed
}

// BackendEnabled reports whether the backend has a non-empty allow-list.
func (e *Evaluator) BackendEnabled(backend string) bool {
	set, ok := e.members[models.NormalizeModelName(backend)]
	return ok && len(set) > 0
}

// AllowedModels returns the allow-list for a backend in declaration order.
// The returned slice is a copy.
func (e *Evaluator) AllowedModels(backend string) []string {
	order := e.ordered[models.NormalizeModelName(backend)]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// ValidateAgainstCatalog logs a warning for every allow-list entry that is
// not a canonical id on its backend, and returns the offending entries.
// Matching is against canonical ids only: IsAllowed and the fallback
// selector never match aliases, so an alias string that survived to here
// (an evaluator built without NewWithCatalog) can never permit anything and
// must be reported just like a typo. Loud but not fatal: an entry that can
// never match is safe.
func (e *Evaluator) ValidateAgainstCatalog(cat *catalog.Catalog, logger *utils.Logger) []string {
	var unknown []string
	for _, backend := range cat.Backends() {
		for _, entry := range e.ordered[backend.Name] {
			if _, ok := cat.LookupCanonical(backend.Name, entry); !ok {
				unknown = append(unknown, backend.Name+"/"+entry)
				if logger != nil {
					logger.Warn("allow-list entry not in catalog", "backend", backend.Name, "model", entry)
				}
			}
		}
	}
	return unknown
}
