package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"model_gateway/internal/models"
)

// AuditWriter appends dispatch records to a JSONL file, rotating by size and
// pruning old rotated files.
type AuditWriter struct {
	fileTemplate string // e.g. "/var/log/model-gateway/audit-%s.jsonl"
	maxSize      int64  // maximum size in bytes before rotation
	maxFiles     int    // rotated files to keep

	mu          sync.Mutex
	currentFile string
	file        *os.File
	writer      *bufio.Writer
	currentSize int64
}

// NewAuditWriter opens the initial audit file. The template must contain one
// %s, filled with a timestamp on every rotation.
func NewAuditWriter(fileTemplate string, maxSize int64, maxFiles int) (*AuditWriter, error) {
	w := &AuditWriter{
		fileTemplate: fileTemplate,
		maxSize:      maxSize,
		maxFiles:     maxFiles,
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *AuditWriter) newFileName() string {
	// Sub-second precision keeps names unique across rapid rotations.
	timestamp := time.Now().Format("20060102150405.000000")
	return fmt.Sprintf(w.fileTemplate, timestamp)
}

// openFile opens (or creates) the active audit file and prepares the
// buffered writer, creating the parent directory when missing.
func (w *AuditWriter) openFile() error {
	w.currentFile = w.newFileName()
	dir := filepath.Dir(w.currentFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(w.currentFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	w.currentSize = fi.Size()
	w.file = file
	w.writer = bufio.NewWriter(file)
	return nil
}

// WriteBatch appends records as JSON lines, rotating when the size cap is
// reached. Individual encode failures skip the record, not the batch.
func (w *AuditWriter) WriteBatch(records []*models.DispatchRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		line = append(line, '\n')

		if w.currentSize+int64(len(line)) >= w.maxSize {
			if err := w.rotateLocked(); err != nil {
				return err
			}
		}

		n, err := w.writer.Write(line)
		if err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
		w.currentSize += int64(n)
	}

	return w.writer.Flush()
}

// rotateLocked closes the active file, opens a fresh one and prunes rotated
// files beyond maxFiles. Caller holds w.mu.
func (w *AuditWriter) rotateLocked() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}
	if err := w.openFile(); err != nil {
		return err
	}
	w.pruneOldFiles()
	return nil
}

// pruneOldFiles deletes the oldest rotated files beyond maxFiles. Best
// effort: removal errors are ignored.
func (w *AuditWriter) pruneOldFiles() {
	if w.maxFiles <= 0 {
		return
	}
	pattern := fmt.Sprintf(w.fileTemplate, "*")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) <= w.maxFiles {
		return
	}
	sort.Strings(matches) // timestamp names sort chronologically
	for _, old := range matches[:len(matches)-w.maxFiles] {
		if old == w.currentFile {
			continue
		}
		_ = os.Remove(old)
	}
}

// Close flushes and closes the active file.
func (w *AuditWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		if err := w.writer.Flush(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
