package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"github.com/goccy/go-json"
)

// Writer stores each report as one indented JSON document.
// It implements pipeline.Sink.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a sink writing to path. Parent directories are created on publish.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "jsonfile" }

// Publish replaces the file at the configured path with the encoded report.
// The document is written to a sibling temp file first and renamed into place.
func (w *Writer) Publish(ctx context.Context, report *domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}

	w.logger.Info("report written", "path", w.path, "bytes", len(data)+1, "run_id", report.RunID)
	return nil
}
