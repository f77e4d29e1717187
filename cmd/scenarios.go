package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danrwr-web/signposting-sub009/internal"
	"github.com/danrwr-web/signposting-sub009/pkg/scenario"
)

// scenariosCmd represents the scenarios command
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run clinical sign-off scenario suites",
	Long: `Run clinical sign-off scenario suites against the compiled-in
decision logic.

A scenario suite is a YAML file of named patient contexts with expected
outcomes. The bundled suites are the clinician-approved sign-off set for
the current logic version; custom suites can be run from local files when
reviewing a proposed tenant configuration.

The command exits non-zero when any case fails, so suites can gate CI or a
logic-version sign-off.

Examples:
  # Run the bundled sign-off suites
  signpost scenarios run

  # Run a local suite file
  signpost scenarios run ./review/riverside-signoff.yaml

  # Emit machine-readable results
  signpost scenarios run -o json`,
}

// scenariosRunCmd runs one suite file or all bundled suites
var scenariosRunCmd = &cobra.Command{
	Use:   "run [suite-file]",
	Short: "Run a scenario suite (bundled suites when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.AddCommand(scenariosRunCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	suites, err := loadScenarioSuites(args)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner()
	results := make([]*scenario.SuiteResult, 0, len(suites))
	failed := 0
	for _, suite := range suites {
		result := runner.RunSuite(suite)
		results = append(results, result)
		if !result.Success {
			failed++
		}
	}

	if err := reportScenarioResults(results); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d suite(s) failed", failed)
	}
	return nil
}

// loadScenarioSuites loads the named suite file, or every bundled suite.
func loadScenarioSuites(args []string) ([]*scenario.Suite, error) {
	if len(args) == 1 {
		suite, err := scenario.LoadSuite(args[0])
		if err != nil {
			return nil, err
		}
		return []*scenario.Suite{suite}, nil
	}

	paths, err := internal.ListBuiltinScenarioSuites()
	if err != nil {
		return nil, fmt.Errorf("failed to list bundled suites: %w", err)
	}

	suites := make([]*scenario.Suite, 0, len(paths))
	for _, path := range paths {
		suite, err := scenario.LoadSuiteFS(internal.GetBuiltinAssetsFS(), path)
		if err != nil {
			return nil, fmt.Errorf("failed to load bundled suite %s: %w", path, err)
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

func reportScenarioResults(results []*scenario.SuiteResult) error {
	if viper.GetString("output") == "json" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, result := range results {
		status := "PASS"
		if !result.Success {
			status = "FAIL"
		}
		fmt.Printf("%s  %s (%d/%d cases passed)\n", status, result.Suite, result.PassedCases, result.TotalCases)

		for _, cr := range result.Results {
			if cr.Passed {
				continue
			}
			fmt.Printf("  FAIL %s\n", cr.Name)
			for _, failure := range cr.Failures {
				fmt.Printf("    - %s\n", failure)
			}
		}
	}
	return nil
}
