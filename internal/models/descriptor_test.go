package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModelName(t *testing.T) {
	assert.Equal(t, "gpt-5", NormalizeModelName(" GPT-5 "))
	assert.Equal(t, "o3", NormalizeModelName("O3"))
	assert.Equal(t, "", NormalizeModelName("  "))
}

func TestFlattenDispatch(t *testing.T) {
	res := ResolutionResult{
		Requested:        "flash",
		ResolvedModel:    "gpt-5",
		Backend:          "openai",
		FallbackOccurred: true,
		Warning:          "substituted",
	}
	verdict := AdmissionVerdict{
		Admitted:     true,
		InputBudget:  320_000,
		OutputBudget: 80_000,
	}

	flat := FlattenDispatch(res, verdict)
	assert.Equal(t, "gpt-5", flat.ResolvedModel)
	assert.Equal(t, "openai", flat.Backend)
	assert.True(t, flat.FallbackOccurred)
	assert.NotNil(t, flat.Warning)
	assert.Equal(t, "substituted", *flat.Warning)
	assert.True(t, flat.Admitted)
	assert.Nil(t, flat.RejectReason)
}

func TestDispatchResponse_NullsOnWire(t *testing.T) {
	flat := FlattenDispatch(
		ResolutionResult{ResolvedModel: "o3", Backend: "openai"},
		AdmissionVerdict{Admitted: true, InputBudget: 160_000, OutputBudget: 40_000},
	)

	data, err := json.Marshal(flat)
	assert.NoError(t, err)

	var wire map[string]any
	assert.NoError(t, json.Unmarshal(data, &wire))

	// Absent warning and reject reason serialize as explicit nulls.
	warning, present := wire["warning"]
	assert.True(t, present)
	assert.Nil(t, warning)

	reason, present := wire["rejectReason"]
	assert.True(t, present)
	assert.Nil(t, reason)
}

func TestNewDispatchRecord(t *testing.T) {
	rec := NewDispatchRecord("gpt-5", 1234)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.ID.String())
	assert.False(t, rec.Timestamp.IsZero())
	assert.Equal(t, "gpt-5", rec.Requested)
	assert.Equal(t, 1234, rec.EstimatedTokens)
}
