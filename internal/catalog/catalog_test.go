package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"model_gateway/internal/models"
)

func testBackends() []models.Backend {
	return []models.Backend{
		{
			Name: "alpha",
			Models: []models.ModelDescriptor{
				{CanonicalID: "model-a", Aliases: []string{"a", "a-latest"}, ContextWindow: 200_000},
				{CanonicalID: "model-b", ContextWindow: 100_000},
			},
		},
		{
			Name: "beta",
			Models: []models.ModelDescriptor{
				{CanonicalID: "model-c", Aliases: []string{"c"}, ContextWindow: 1_000_000},
			},
		},
	}
}

func TestCatalog_New(t *testing.T) {
	cat, err := New(testBackends())
	assert.NoError(t, err)

	backends := cat.Backends()
	assert.Len(t, backends, 2)
	assert.Equal(t, "alpha", backends[0].Name)
	assert.Equal(t, "beta", backends[1].Name)

	desc, ok := cat.Descriptor("alpha", "model-a")
	assert.True(t, ok)
	assert.Equal(t, 200_000, desc.ContextWindow)
	assert.Equal(t, "alpha", desc.Backend)

	_, ok = cat.Descriptor("alpha", "model-c")
	assert.False(t, ok)

	_, ok = cat.Descriptor("gamma", "model-a")
	assert.False(t, ok)
}

func TestCatalog_Empty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestCatalog_NormalizesNames(t *testing.T) {
	cat, err := New([]models.Backend{
		{
			Name: "  Alpha ",
			Models: []models.ModelDescriptor{
				{CanonicalID: "Model-A", Aliases: []string{" A-Latest "}, ContextWindow: 200_000},
			},
		},
	})
	assert.NoError(t, err)

	id, ok := cat.LookupCanonical("alpha", "MODEL-a")
	assert.True(t, ok)
	assert.Equal(t, "model-a", id)

	id, ok = cat.LookupAlias("ALPHA", "a-latest")
	assert.True(t, ok)
	assert.Equal(t, "model-a", id)
}

func TestCatalog_DuplicateBackend(t *testing.T) {
	_, err := New([]models.Backend{
		{Name: "alpha", Models: []models.ModelDescriptor{{CanonicalID: "x", ContextWindow: 2048}}},
		{Name: "Alpha", Models: []models.ModelDescriptor{{CanonicalID: "y", ContextWindow: 2048}}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate backend")
}

func TestCatalog_DuplicateCanonicalID(t *testing.T) {
	_, err := New([]models.Backend{
		{
			Name: "alpha",
			Models: []models.ModelDescriptor{
				{CanonicalID: "model-a", ContextWindow: 2048},
				{CanonicalID: "MODEL-A", ContextWindow: 2048},
			},
		},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate canonical id")
}

func TestCatalog_AliasCollidesWithCanonical(t *testing.T) {
	_, err := New([]models.Backend{
		{
			Name: "alpha",
			Models: []models.ModelDescriptor{
				{CanonicalID: "model-a", ContextWindow: 2048},
				{CanonicalID: "model-b", Aliases: []string{"model-a"}, ContextWindow: 2048},
			},
		},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestCatalog_ContextWindowTooSmall(t *testing.T) {
	_, err := New([]models.Backend{
		{Name: "alpha", Models: []models.ModelDescriptor{{CanonicalID: "tiny", ContextWindow: 512}}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum")
}

func TestBuiltin(t *testing.T) {
	cat, err := Builtin()
	assert.NoError(t, err)

	backends := cat.Backends()
	assert.Equal(t, "openai", backends[0].Name)
	assert.Equal(t, "google", backends[1].Name)
	assert.Equal(t, "openrouter", backends[2].Name)

	desc, ok := cat.Descriptor("openai", "gpt-5")
	assert.True(t, ok)
	assert.Equal(t, 400_000, desc.ContextWindow)

	desc, ok = cat.Descriptor("openai", "o3")
	assert.True(t, ok)
	assert.Equal(t, 200_000, desc.ContextWindow)

	desc, ok = cat.Descriptor("google", "gemini-2.5-pro")
	assert.True(t, ok)
	assert.Equal(t, 1_000_000, desc.ContextWindow)

	id, ok := cat.LookupAlias("openai", "gpt5")
	assert.True(t, ok)
	assert.Equal(t, "gpt-5", id)

	// "flash" is not an alias anywhere; only "gemini-flash" is.
	_, ok = cat.LookupAlias("google", "flash")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	doc := []byte(`
backends:
  - name: alpha
    models:
      - canonical_id: model-a
        aliases: [a, a-latest]
        context_window: 200000
  - name: beta
    models:
      - canonical_id: model-c
        context_window: 1000000
`)
	cat, err := Parse(doc)
	assert.NoError(t, err)

	backends := cat.Backends()
	assert.Len(t, backends, 2)
	assert.Equal(t, "alpha", backends[0].Name)

	id, ok := cat.LookupAlias("alpha", "a-latest")
	assert.True(t, ok)
	assert.Equal(t, "model-a", id)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("backends: ["))
	assert.Error(t, err)
}

func TestParse_InvalidCatalog(t *testing.T) {
	_, err := Parse([]byte("backends: []"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
