// Package json renders classification reports as JSON files.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkyoung/mtscreen/internal/domain"
)

// Writer persists classification reports as JSON files.
type Writer struct{}

// NewWriter creates a new JSON writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write persists a report to disk as an indented JSON file named after the
// run ID.
func (w *Writer) Write(ctx context.Context, artifact domain.ReportArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(artifact.OutputDir, fmt.Sprintf("%s.json", artifact.Report.RunID))

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(artifact.Report); err != nil {
		return "", fmt.Errorf("failed to encode report to json: %w", err)
	}

	return filePath, nil
}
