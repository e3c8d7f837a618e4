package writer

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"SessionSpectra/internal/model"
)

// SummaryData holds the metadata written next to a gob snapshot.
type SummaryData struct {
	SessionCount int    `json:"session_count"`
	ClosedCount  int    `json:"closed_count"`
	PacketCount  int    `json:"packet_count"`
	ByteCount    uint64 `json:"byte_count"`
	Timestamp    string `json:"timestamp"`
}

// GobWriter persists session batches to disk in gob format, one timestamped
// directory per batch with a summary.json beside the data file.
type GobWriter struct {
	rootPath string
}

// NewGobWriter creates a gob writer rooted at the given directory.
func NewGobWriter(rootPath string) *GobWriter {
	return &GobWriter{rootPath: rootPath}
}

func (w *GobWriter) Name() string { return "gob" }

// Write serializes the batch to <root>/<timestamp>/sessions.dat. Empty
// batches produce no files.
func (w *GobWriter) Write(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	dir := filepath.Join(w.rootPath, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	dataPath := filepath.Join(dir, "sessions.dat")
	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", dataPath, err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(sessions); err != nil {
		return fmt.Errorf("failed to encode sessions to gob: %w", err)
	}

	summary := SummaryData{
		SessionCount: len(sessions),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range sessions {
		if s.Closed() {
			summary.ClosedCount++
		}
		summary.PacketCount += len(s.Packets)
		summary.ByteCount += s.ByteCount()
	}

	summaryPath := filepath.Join(dir, "summary.json")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	jsonEncoder := json.NewEncoder(summaryFile)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}
	return nil
}

func (w *GobWriter) Close() error { return nil }
