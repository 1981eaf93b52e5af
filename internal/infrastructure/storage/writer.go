package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"newsarchive/internal/domain"
	"newsarchive/internal/ports"
)

// Writer persists captured articles as one JSON file each, laid out as
// <base>/<source>/<YYYY-MM>/<id>.json.
type Writer struct {
	baseDir string
}

var _ ports.ArticleStore = (*Writer)(nil)

// NewWriter roots the writer at baseDir. The directory itself is created
// lazily on first write.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// DerivePath maps a record to its storage location. It is a pure function of
// the base directory and the record's (source, period, id); re-deriving the
// path for the same record always yields the same answer.
func DerivePath(baseDir string, r domain.ArticleRecord) string {
	return filepath.Join(baseDir, r.Source, r.Period(), r.ID+".json")
}

// Write persists the record at its derived path, creating intermediate
// directories as needed, and returns that path. The file content is indented
// JSON so the archive stays greppable by hand.
func (w *Writer) Write(record domain.ArticleRecord) (string, error) {
	path := DerivePath(w.baseDir, record)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory for %s: %v", domain.ErrStorage, path, err)
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshal article %s: %v", domain.ErrStorage, record.ID, err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrStorage, path, err)
	}

	return path, nil
}
