package catalog

import (
	"errors"
	"fmt"

	"model_gateway/internal/models"
)

// MinContextWindow is the smallest context window a catalog entry may declare.
// Anything below this cannot fit a meaningful input/output split, so it is
// rejected at load time rather than at admission time.
const MinContextWindow = 1024

var (
	// ErrEmptyCatalog is returned when a catalog is built with no backends.
	ErrEmptyCatalog = errors.New("catalog has no backends")

	// ErrBackendNotFound is returned when looking up an unknown backend.
	ErrBackendNotFound = errors.New("backend not found")
)

// Catalog is the immutable registry of backends and their model descriptors.
// It is built once at startup and read concurrently without locking.
type Catalog struct {
	backends []models.Backend
	byName   map[string]int // normalized backend name -> index into backends

	// Per backend: normalized canonical id / alias -> canonical id.
	canonical map[string]map[string]string
	aliases   map[string]map[string]string
}

// New validates the declared backends and builds the lookup indexes.
// Backend order is preserved: it is the resolution tie-break and the fallback
// priority order.
func New(backends []models.Backend) (*Catalog, error) {
	if len(backends) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		byName:    make(map[string]int, len(backends)),
		canonical: make(map[string]map[string]string, len(backends)),
		aliases:   make(map[string]map[string]string, len(backends)),
	}

	for _, backend := range backends {
		name := models.NormalizeModelName(backend.Name)
		if name == "" {
			return nil, fmt.Errorf("backend with empty name")
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate backend %q", backend.Name)
		}

		canonicals := make(map[string]string, len(backend.Models))
		aliasMap := make(map[string]string)

		kept := models.Backend{Name: name, Models: make([]models.ModelDescriptor, 0, len(backend.Models))}
		for _, desc := range backend.Models {
			id := models.NormalizeModelName(desc.CanonicalID)
			if id == "" {
				return nil, fmt.Errorf("backend %q: model with empty canonical id", name)
			}
			if _, dup := canonicals[id]; dup {
				return nil, fmt.Errorf("backend %q: duplicate canonical id %q", name, desc.CanonicalID)
			}
			if desc.ContextWindow < MinContextWindow {
				return nil, fmt.Errorf("backend %q: model %q: context window %d below minimum %d",
					name, desc.CanonicalID, desc.ContextWindow, MinContextWindow)
			}

			canonicals[id] = id
			normalized := models.ModelDescriptor{
				CanonicalID:   id,
				ContextWindow: desc.ContextWindow,
				Backend:       name,
			}
			for _, alias := range desc.Aliases {
				a := models.NormalizeModelName(alias)
				if a == "" {
					continue
				}
				if _, dup := aliasMap[a]; dup {
					return nil, fmt.Errorf("backend %q: duplicate alias %q", name, alias)
				}
				aliasMap[a] = id
				normalized.Aliases = append(normalized.Aliases, a)
			}
			kept.Models = append(kept.Models, normalized)
		}

		// An alias shadowing a canonical id on the same backend would make
		// resolution order-dependent.
		for alias := range aliasMap {
			if _, clash := canonicals[alias]; clash {
				return nil, fmt.Errorf("backend %q: alias %q collides with a canonical id", name, alias)
			}
		}

		c.byName[name] = len(c.backends)
		c.backends = append(c.backends, kept)
		c.canonical[name] = canonicals
		c.aliases[name] = aliasMap
	}

	return c, nil
}

// Backends returns the backends in declared priority order.
func (c *Catalog) Backends() []models.Backend {
	return c.backends
}

// Backend returns the backend with the given name.
func (c *Catalog) Backend(name string) (models.Backend, bool) {
	idx, ok := c.byName[models.NormalizeModelName(name)]
	if !ok {
		return models.Backend{}, false
	}
	return c.backends[idx], true
}

// Descriptor returns the descriptor for a canonical id on a backend.
func (c *Catalog) Descriptor(backend, canonicalID string) (models.ModelDescriptor, bool) {
	b, ok := c.Backend(backend)
	if !ok {
		return models.ModelDescriptor{}, false
	}
	id := models.NormalizeModelName(canonicalID)
	for _, desc := range b.Models {
		if desc.CanonicalID == id {
			return desc, true
		}
	}
	return models.ModelDescriptor{}, false
}

// LookupCanonical reports whether id is a canonical identifier on backend.
func (c *Catalog) LookupCanonical(backend, id string) (string, bool) {
	m, ok := c.canonical[models.NormalizeModelName(backend)]
	if !ok {
		return "", false
	}
	canonical, ok := m[models.NormalizeModelName(id)]
	return canonical, ok
}

// LookupAlias resolves an alias to its canonical identifier on backend.
func (c *Catalog) LookupAlias(backend, alias string) (string, bool) {
	m, ok := c.aliases[models.NormalizeModelName(backend)]
	if !ok {
		return "", false
	}
	canonical, ok := m[models.NormalizeModelName(alias)]
	return canonical, ok
}
