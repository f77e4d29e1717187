package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// JSONReporter implements the Reporter interface for JSON output
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() Reporter {
	return &JSONReporter{}
}

// GenerateReport renders the result as indented JSON. The discriminated
// shape is emitted as-is so callers never lose the ok/not_eligible split or
// the ordering of alternatives, checks and escalations.
func (r *JSONReporter) GenerateReport(ctx context.Context, result *models.RecommendationResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

// WriteReport writes the JSON report to the configured writer
func (r *JSONReporter) WriteReport(ctx context.Context, result *models.RecommendationResult, writer io.Writer) error {
	data, err := r.GenerateReport(ctx, result)
	if err != nil {
		return err
	}
	if _, err := writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// GetFormat returns the format name
func (r *JSONReporter) GetFormat() string {
	return string(ReporterTypeJSON)
}

// GetFileExtension returns the recommended file extension
func (r *JSONReporter) GetFileExtension() string {
	return ".json"
}
