package reporter

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// YAMLReporter implements the Reporter interface for YAML output
type YAMLReporter struct{}

// NewYAMLReporter creates a new YAML reporter
func NewYAMLReporter() Reporter {
	return &YAMLReporter{}
}

// GenerateReport renders the result as YAML
func (r *YAMLReporter) GenerateReport(ctx context.Context, result *models.RecommendationResult) ([]byte, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return data, nil
}

// WriteReport writes the YAML report to the configured writer
func (r *YAMLReporter) WriteReport(ctx context.Context, result *models.RecommendationResult, writer io.Writer) error {
	data, err := r.GenerateReport(ctx, result)
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return nil
}

// GetFormat returns the format name
func (r *YAMLReporter) GetFormat() string {
	return string(ReporterTypeYAML)
}

// GetFileExtension returns the recommended file extension
func (r *YAMLReporter) GetFileExtension() string {
	return ".yaml"
}
