package storage

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"model_gateway/internal/models"
)

// CatalogRepository reads catalog and restriction configuration from the
// backends, models and allowed_models tables.
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type backendRow struct {
	Name     string `db:"name"`
	Priority int    `db:"priority"`
}

type modelRow struct {
	BackendName   string         `db:"backend_name"`
	CanonicalID   string         `db:"canonical_id"`
	Aliases       pq.StringArray `db:"aliases"`
	ContextWindow int            `db:"context_window"`
}

type allowedModelRow struct {
	BackendName string `db:"backend_name"`
	CanonicalID string `db:"canonical_id"`
	Position    int    `db:"position"`
}

// LoadBackends returns the backend declarations in priority order, each with
// its model descriptors in declaration order.
func (r *CatalogRepository) LoadBackends(ctx context.Context) ([]models.Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.queryTimeout)
	defer cancel()

	var backendRows []backendRow
	query := `
		SELECT name, priority
		FROM backends
		ORDER BY priority ASC
	`
	if err := r.db.conn.SelectContext(ctx, &backendRows, query); err != nil {
		return nil, fmt.Errorf("failed to load backends: %w", err)
	}
	if len(backendRows) == 0 {
		return nil, ErrNoBackends
	}

	var modelRows []modelRow
	query = `
		SELECT backend_name, canonical_id, aliases, context_window
		FROM models
		ORDER BY backend_name, position ASC
	`
	if err := r.db.conn.SelectContext(ctx, &modelRows, query); err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	byBackend := make(map[string][]models.ModelDescriptor, len(backendRows))
	for _, row := range modelRows {
		byBackend[row.BackendName] = append(byBackend[row.BackendName], models.ModelDescriptor{
			CanonicalID:   row.CanonicalID,
			Aliases:       []string(row.Aliases),
			ContextWindow: row.ContextWindow,
			Backend:       row.BackendName,
		})
	}

	backends := make([]models.Backend, 0, len(backendRows))
	for _, row := range backendRows {
		backends = append(backends, models.Backend{
			Name:   row.Name,
			Models: byBackend[row.Name],
		})
	}
	return backends, nil
}

// LoadRestrictions returns the per-backend allow-lists in declaration order.
// A backend with no rows gets no entry and is therefore disabled.
func (r *CatalogRepository) LoadRestrictions(ctx context.Context) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.queryTimeout)
	defer cancel()

	var rows []allowedModelRow
	query := `
		SELECT backend_name, canonical_id, position
		FROM allowed_models
		ORDER BY backend_name, position ASC
	`
	if err := r.db.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load allowed models: %w", err)
	}

	lists := make(map[string][]string)
	for _, row := range rows {
		lists[row.BackendName] = append(lists[row.BackendName], row.CanonicalID)
	}
	return lists, nil
}
