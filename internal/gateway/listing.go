package gateway

import "model_gateway/internal/models"

// BackendListing describes one backend's usable models for diagnostics.
type BackendListing struct {
	Backend string                   `json:"backend"`
	Enabled bool                     `json:"enabled"`
	Models  []models.ModelDescriptor `json:"models"`
}

// ListAvailableModels returns, per backend in priority order, the catalog
// descriptors the current restrictions actually permit. Disabled backends
// appear with Enabled=false and no models so callers can see they exist.
func (d *Dispatcher) ListAvailableModels() []BackendListing {
	listings := make([]BackendListing, 0, len(d.cat.Backends()))
	for _, backend := range d.cat.Backends() {
		listing := BackendListing{
			Backend: backend.Name,
			Enabled: d.eval.BackendEnabled(backend.Name),
		}
		if listing.Enabled {
			for _, desc := range backend.Models {
				if d.eval.IsAllowed(backend.Name, desc.CanonicalID) {
					listing.Models = append(listing.Models, desc)
				}
			}
		}
		listings = append(listings, listing)
	}
	return listings
}
