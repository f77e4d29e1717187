package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/engine"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
	"github.com/danrwr-web/signposting-sub009/pkg/reporter"
	"github.com/danrwr-web/signposting-sub009/pkg/tenant"
	"github.com/danrwr-web/signposting-sub009/pkg/validation"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a patient context against the signposting pathway",
	Long: `Evaluate a structured patient context file and print the resulting
recommendation.

The input file is YAML (JSON is accepted too) describing the patient
context: eligibility, red flags, symptom indicators, severity, current
treatment and cautions. The evaluation is deterministic; re-running with
the same input and tenant configuration always produces the same output.

Examples:
  # Evaluate a context file with the default tenant configuration
  signpost evaluate -f patient.yaml

  # Evaluate for a named surgery (looked up in the tenant directory)
  signpost evaluate -f patient.yaml --tenant riverside-practice

  # Evaluate with an explicit tenant configuration file
  signpost evaluate -f patient.yaml --tenant-file ./riverside.yaml

  # Read the context from stdin, emit JSON
  cat patient.yaml | signpost evaluate -f - -o json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("file", "f", "", "patient context file (use '-' for stdin)")
	evaluateCmd.Flags().String("tenant", "", "tenant identifier resolved via the tenant directory")
	evaluateCmd.Flags().String("tenant-file", "", "explicit tenant configuration file (overrides --tenant)")
	evaluateCmd.Flags().Bool("fail-on-escalation", false, "exit non-zero when the result is a red-flag escalation")
	if err := evaluateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag required: %v", err))
	}
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	inputPath, _ := cmd.Flags().GetString("file")
	tenantID, _ := cmd.Flags().GetString("tenant")
	tenantFile, _ := cmd.Flags().GetString("tenant-file")

	input, err := readPatientContext(inputPath)
	if err != nil {
		return err
	}

	if result := validation.ValidatePatientContext(input); !result.Valid {
		for _, verr := range result.Errors {
			log.Error("Invalid patient context", "field", verr.Field, "error", verr.Message)
		}
		return fmt.Errorf("patient context failed validation with %d error(s)", len(result.Errors))
	}

	tenantCfg, err := resolveTenantConfig(cmd.Context(), tenantID, tenantFile)
	if err != nil {
		return err
	}

	log.Debug("Evaluating patient context",
		"tenant", tenantCfg.Tenant,
		"voiding_count", input.VoidingCount(),
		"storage_count", input.StorageCount())

	result := engine.New().Evaluate(input, tenantCfg)

	if err := writeResult(cmd.Context(), result); err != nil {
		return err
	}

	if failOnEscalation, _ := cmd.Flags().GetBool("fail-on-escalation"); failOnEscalation && result.IsEscalation() {
		return fmt.Errorf("evaluation produced a red-flag escalation")
	}
	return nil
}

// readPatientContext loads a patient context from a file path or stdin ("-").
func readPatientContext(path string) (*models.PatientContext, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read patient context: %w", err)
	}

	var input models.PatientContext
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse patient context: %w", err)
	}
	return &input, nil
}

// resolveTenantConfig picks tenant configuration in precedence order:
// explicit file, then tenant id via the file provider, then the default.
func resolveTenantConfig(ctx context.Context, tenantID, tenantFile string) (*config.TenantConfig, error) {
	if tenantFile != "" {
		cfg, err := config.LoadTenantFile(tenantFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant file: %w", err)
		}
		return cfg, nil
	}

	if result := validation.ValidateTenantID(tenantID); !result.Valid {
		return nil, fmt.Errorf("invalid tenant id %q", tenantID)
	}

	dir := viper.GetString("tenant-dir")
	if dir == "" {
		appCfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		dir = appCfg.TenantStore.Dir
	}

	provider := tenant.NewFileProvider(dir, config.DefaultTenantConfig())
	return provider.Get(ctx, tenantID)
}

// writeResult renders the recommendation with the configured reporter.
func writeResult(ctx context.Context, result *models.RecommendationResult) error {
	factory := reporter.NewFactory()
	rep, err := factory.CreateReporterWithOptions(
		viper.GetString("output"),
		viper.GetBool("no-color"),
		viper.GetBool("verbose"),
	)
	if err != nil {
		return err
	}

	var writer io.Writer = os.Stdout
	if outputFile := viper.GetString("output-file"); outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				GetLogger().Error("Failed to close output file", "error", cerr)
			}
		}()
		writer = f
	}

	return rep.WriteReport(ctx, result, writer)
}
