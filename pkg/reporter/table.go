package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBold   = "\033[1m"
)

// TableReporter renders a recommendation result for console output
type TableReporter struct {
	noColor bool
	verbose bool
	width   int
}

// NewTableReporter creates a new table reporter
func NewTableReporter(noColor, verbose bool) Reporter {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		width = w
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	return &TableReporter{noColor: noColor, verbose: verbose, width: width}
}

// GenerateReport renders the recommendation as a console report
func (r *TableReporter) GenerateReport(ctx context.Context, result *models.RecommendationResult) ([]byte, error) {
	var out strings.Builder
	caser := cases.Title(language.English)

	rule := strings.Repeat("=", min(r.width, 72))
	out.WriteString(rule + "\n")
	out.WriteString(r.bold("Signposting Recommendation") + "\n")
	out.WriteString(rule + "\n\n")

	switch result.Status {
	case models.StatusNotEligible:
		out.WriteString(r.colorize("Status:   NOT ELIGIBLE", colorYellow) + "\n")
		for _, line := range result.Primary.Rationale {
			out.WriteString("  " + line + "\n")
		}
		return []byte(out.String()), nil
	default:
		out.WriteString("Status:   OK\n")
	}

	out.WriteString(fmt.Sprintf("Category: %s\n\n", caser.String(result.Category.String())))

	if result.IsEscalation() {
		out.WriteString(r.colorize(r.bold("URGENT ESCALATION"), colorRed) + "\n")
		for _, line := range result.Escalation {
			out.WriteString(r.colorize("  ! "+line, colorRed) + "\n")
		}
		return []byte(out.String()), nil
	}

	out.WriteString(r.bold("Primary recommendation") + "\n")
	out.WriteString(r.formatRecommendation(result.Primary, caser))

	if len(result.Alternatives) > 0 {
		out.WriteString("\n" + r.bold("Alternatives") + "\n")
		for _, alt := range result.Alternatives {
			out.WriteString(r.formatRecommendation(alt, caser))
		}
	}

	if len(result.Checks) > 0 {
		out.WriteString("\n" + r.bold("Checks and follow-up") + "\n")
		for _, check := range result.Checks {
			out.WriteString("  - " + check + "\n")
		}
	}

	if len(result.Consider) > 0 {
		out.WriteString("\n" + r.bold("Consider") + "\n")
		for _, hint := range result.Consider {
			out.WriteString(r.colorize("  ~ "+hint, colorYellow) + "\n")
		}
	}

	if r.verbose {
		out.WriteString("\n" + r.bold("Logic") + "\n")
		out.WriteString(fmt.Sprintf("  Version:  %s\n", result.Metadata.LogicVersion))
		for _, src := range result.Metadata.BasedOn {
			out.WriteString("  Based on: " + src + "\n")
		}
	}

	return []byte(out.String()), nil
}

func (r *TableReporter) formatRecommendation(rec models.Recommendation, caser cases.Caser) string {
	var out strings.Builder
	label := caser.String(strings.ReplaceAll(rec.Class.String(), "_", " "))
	out.WriteString(r.colorize("  * "+label, colorGreen))
	if rec.Preferred != "" {
		out.WriteString(" (" + rec.Preferred + ")")
	}
	out.WriteString("\n")
	for _, line := range rec.Rationale {
		out.WriteString("      " + line + "\n")
	}
	return out.String()
}

// WriteReport writes the table report to the configured writer
func (r *TableReporter) WriteReport(ctx context.Context, result *models.RecommendationResult, writer io.Writer) error {
	data, err := r.GenerateReport(ctx, result)
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write table report: %w", err)
	}
	return nil
}

// GetFormat returns the format name
func (r *TableReporter) GetFormat() string {
	return string(ReporterTypeTable)
}

// GetFileExtension returns the recommended file extension
func (r *TableReporter) GetFileExtension() string {
	return ".txt"
}

func (r *TableReporter) colorize(s, color string) string {
	if r.noColor {
		return s
	}
	return color + s + colorReset
}

func (r *TableReporter) bold(s string) string {
	return r.colorize(s, colorBold)
}
