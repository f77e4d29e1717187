package reporter

import (
	"context"
	"io"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Reporter defines the interface for rendering a recommendation result
type Reporter interface {
	// GenerateReport renders a recommendation result
	GenerateReport(ctx context.Context, result *models.RecommendationResult) ([]byte, error)

	// WriteReport writes a rendered result to the specified writer
	WriteReport(ctx context.Context, result *models.RecommendationResult, writer io.Writer) error

	// GetFormat returns the format name of this reporter
	GetFormat() string

	// GetFileExtension returns the recommended file extension
	GetFileExtension() string
}

// ReportOptions defines options for report generation
type ReportOptions struct {
	// Format specifies the output format (table, json, yaml)
	Format string

	// OutputFile specifies the output file path
	OutputFile string

	// NoColor disables colored output for table format
	NoColor bool

	// Verbose includes the metadata block in table output
	Verbose bool
}
