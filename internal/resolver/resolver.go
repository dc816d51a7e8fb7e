// Package resolver maps caller-supplied model names to canonical catalog
// identifiers and picks deterministic substitutes when the requested model
// cannot be used.
package resolver

import (
	"model_gateway/internal/catalog"
	"model_gateway/internal/models"
)

// Resolver resolves free-form model names against the provider catalog.
// Resolution is orthogonal to restrictions: a name may resolve to a canonical
// id that the restriction evaluator later denies.
type Resolver struct {
	cat *catalog.Catalog
}

// NewResolver creates a resolver over an immutable catalog.
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Resolve maps requested to a canonical identifier. backendScope narrows the
// search to one backend; pass "" to search all backends in declared priority
// order. Canonical identifiers are matched before aliases, so an alias on a
// high-priority backend never shadows a canonical id on a lower one.
func (r *Resolver) Resolve(requested, backendScope string) (canonicalID, backend string, ok bool) {
	name := models.NormalizeModelName(requested)
	if name == "" {
		return "", "", false
	}

	scope := models.NormalizeModelName(backendScope)
	backends := r.cat.Backends()

	for _, b := range backends {
		if scope != "" && b.Name != scope {
			continue
		}
		if id, found := r.cat.LookupCanonical(b.Name, name); found {
			return id, b.Name, true
		}
	}
	for _, b := range backends {
		if scope != "" && b.Name != scope {
			continue
		}
		if id, found := r.cat.LookupAlias(b.Name, name); found {
			return id, b.Name, true
		}
	}
	return "", "", false
}
