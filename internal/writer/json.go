// Package writer provides the session sinks behind the model.Writer
// interface: JSON documents, gob snapshots, ClickHouse and Postgres.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"SessionSpectra/internal/model"
)

// JSONWriter writes each batch of sessions as one indented JSON document
// under a timestamped directory.
type JSONWriter struct {
	rootPath string
}

// NewJSONWriter creates a writer rooted at the given directory.
func NewJSONWriter(rootPath string) *JSONWriter {
	return &JSONWriter{rootPath: rootPath}
}

func (w *JSONWriter) Name() string { return "json" }

// Write serializes the sessions, packets included, to
// <root>/<timestamp>/sessions.json.
func (w *JSONWriter) Write(ctx context.Context, sessions []*model.Session) error {
	dir := filepath.Join(w.rootPath, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "sessions.json")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sessions file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sessions); err != nil {
		return fmt.Errorf("failed to encode sessions to json: %w", err)
	}
	return nil
}

func (w *JSONWriter) Close() error { return nil }
