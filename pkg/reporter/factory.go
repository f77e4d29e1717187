package reporter

import (
	"fmt"
	"strings"
)

// ReporterType represents the type of reporter
type ReporterType string

const (
	ReporterTypeTable ReporterType = "table"
	ReporterTypeJSON  ReporterType = "json"
	ReporterTypeYAML  ReporterType = "yaml"
)

// Factory creates reporters for the supported output formats
type Factory struct{}

// NewFactory creates a new reporter factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateReporter creates a reporter based on the specified format
func (f *Factory) CreateReporter(format string) (Reporter, error) {
	return f.CreateReporterWithOptions(format, false, false)
}

// CreateReporterWithOptions creates a reporter with specific options
func (f *Factory) CreateReporterWithOptions(format string, noColor, verbose bool) (Reporter, error) {
	reporterType, err := ParseReporterType(format)
	if err != nil {
		return nil, err
	}

	switch reporterType {
	case ReporterTypeTable:
		return NewTableReporter(noColor, verbose), nil
	case ReporterTypeJSON:
		return NewJSONReporter(), nil
	case ReporterTypeYAML:
		return NewYAMLReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported reporter type: %s", reporterType)
	}
}

// GetSupportedFormats returns a list of supported reporter formats
func (f *Factory) GetSupportedFormats() []string {
	return []string{
		string(ReporterTypeTable),
		string(ReporterTypeJSON),
		string(ReporterTypeYAML),
	}
}

// ParseReporterType parses a string into a ReporterType
func ParseReporterType(s string) (ReporterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return ReporterTypeTable, nil
	case "json":
		return ReporterTypeJSON, nil
	case "yaml", "yml":
		return ReporterTypeYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}
