package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"model_gateway/internal/models"
)

func TestAuditWriter_WriteBatch(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "audit-%s.jsonl")

	w, err := NewAuditWriter(template, 1024*1024, 3)
	if err != nil {
		t.Fatalf("NewAuditWriter failed: %v", err)
	}
	defer w.Close()

	records := []*models.DispatchRecord{
		models.NewDispatchRecord("gpt-5", 1000),
		models.NewDispatchRecord("o3", 2000),
	}
	records[0].ResolvedModel = "gpt-5"
	records[0].Backend = "openai"
	records[0].Admitted = true

	if err := w.WriteBatch(records); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "audit-*.jsonl"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected 1 audit file, got %d (err %v)", len(matches), err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("Failed to open audit file: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec models.DispatchRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", lines+1, err)
		}
		if lines == 0 {
			if rec.ResolvedModel != "gpt-5" || rec.Backend != "openai" || !rec.Admitted {
				t.Errorf("First record round-trip mismatch: %+v", rec)
			}
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("Expected 2 JSON lines, got %d", lines)
	}
}

func TestAuditWriter_Rotation(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "audit-%s.jsonl")

	// Tiny cap so every batch rotates.
	w, err := NewAuditWriter(template, 64, 10)
	if err != nil {
		t.Fatalf("NewAuditWriter failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		batch := []*models.DispatchRecord{models.NewDispatchRecord("gpt-5", i)}
		if err := w.WriteBatch(batch); err != nil {
			t.Fatalf("WriteBatch %d failed: %v", i, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "audit-*.jsonl"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) < 2 {
		t.Errorf("Expected rotation to create multiple files, got %d", len(matches))
	}
}

func TestAuditWriter_EmptyBatch(t *testing.T) {
	dir := t.TempDir()
	w, err := NewAuditWriter(filepath.Join(dir, "audit-%s.jsonl"), 1024, 3)
	if err != nil {
		t.Fatalf("NewAuditWriter failed: %v", err)
	}
	defer w.Close()

	if err := w.WriteBatch(nil); err != nil {
		t.Errorf("WriteBatch(nil) failed: %v", err)
	}
}
