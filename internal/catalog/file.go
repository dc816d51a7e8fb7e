package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"model_gateway/internal/models"
)

// catalogFile is the YAML document shape:
//
//	backends:
//	  - name: openai
//	    models:
//	      - canonical_id: gpt-5
//	        aliases: [gpt5, gpt-5-chat-latest]
//	        context_window: 400000
type catalogFile struct {
	Backends []models.Backend `yaml:"backends"`
}

// LoadFile reads a catalog declaration from a YAML file and validates it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	cat, err := New(doc.Backends)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return cat, nil
}
