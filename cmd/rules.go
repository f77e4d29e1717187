package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/pkg/engine"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the fixed decision logic",
	Long: `Inspect the fixed decision logic compiled into this binary.

Shows the logic version, the evidence sources it encodes, the red flags
checked by the safety gate in their fixed order, the classification
thresholds, the treatment ladders and the resolver rules in their fixed
priority order. The logic cannot be changed by configuration; what this
command prints is exactly what every evaluation runs.

Examples:
  # Show the decision logic summary
  signpost rules

  # Emit the summary as JSON for documentation tooling
  signpost rules -o json`,
	RunE: runRules,
}

// ladderStep is one tier of a treatment ladder.
type ladderStep struct {
	Tier      int    `json:"tier" yaml:"tier"`
	Class     string `json:"class" yaml:"class"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// logicSummary describes the compiled-in decision logic.
type logicSummary struct {
	LogicVersion            string                  `json:"logicVersion" yaml:"logicVersion"`
	BasedOn                 []string                `json:"basedOn" yaml:"basedOn"`
	RedFlags                []string                `json:"redFlags" yaml:"redFlags"`
	ClassificationThreshold int                     `json:"classificationThreshold" yaml:"classificationThreshold"`
	MildSeverityCutoff      int                     `json:"mildSeverityCutoff" yaml:"mildSeverityCutoff"`
	MaxSeverityScore        int                     `json:"maxSeverityScore" yaml:"maxSeverityScore"`
	Ladders                 map[string][]ladderStep `json:"ladders" yaml:"ladders"`
	Contraindications       map[string]string       `json:"contraindications" yaml:"contraindications"`
	Rules                   []string                `json:"rules" yaml:"rules"`
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func buildLogicSummary() logicSummary {
	return logicSummary{
		LogicVersion:            models.LogicVersion,
		BasedOn:                 models.BasedOn,
		RedFlags:                engine.RedFlagNames(),
		ClassificationThreshold: engine.ClassificationThreshold,
		MildSeverityCutoff:      models.MildSeverityCutoff,
		MaxSeverityScore:        models.MaxIPSS,
		Ladders: map[string][]ladderStep{
			"voiding": {
				{Tier: 1, Class: string(models.ClassAlphaBlocker)},
				{Tier: 2, Class: string(models.ClassFiveAlphaReductase), Condition: "enlarged prostate confirmed"},
			},
			"storage": {
				{Tier: 1, Class: string(models.ClassAntimuscarinic)},
				{Tier: 2, Class: string(models.ClassBeta3Agonist), Condition: "bladder training completed"},
			},
		},
		Contraindications: map[string]string{
			string(models.ClassAlphaBlocker):   "significant postural hypotension",
			string(models.ClassAntimuscarinic): "anticholinergic risk (frailty, cognitive burden, narrow-angle glaucoma)",
			string(models.ClassBeta3Agonist):   "uncontrolled hypertension",
		},
		Rules: engine.RuleNames(),
	}
}

func runRules(cmd *cobra.Command, args []string) error {
	summary := buildLogicSummary()

	switch format := viper.GetString("output"); format {
	case "json":
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	case "yaml":
		out, err := yaml.Marshal(summary)
		if err != nil {
			return err
		}
		fmt.Print(string(out))

	case "table", "text":
		printLogicSummary(summary)

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	return nil
}

func printLogicSummary(summary logicSummary) {
	fmt.Printf("Decision logic %s\n", summary.LogicVersion)
	fmt.Printf("Based on: %s\n\n", strings.Join(summary.BasedOn, ", "))

	fmt.Println("Red flags (checked in order, all reported):")
	for i, name := range summary.RedFlags {
		fmt.Printf("  %d. %s\n", i+1, name)
	}

	fmt.Printf("\nClassification threshold: %d indicators per group\n", summary.ClassificationThreshold)
	fmt.Printf("Mild severity cutoff: IPSS <= %d (of %d)\n", summary.MildSeverityCutoff, summary.MaxSeverityScore)

	fmt.Println("\nTreatment ladders:")
	for _, group := range []string{"voiding", "storage"} {
		fmt.Printf("  %s:\n", group)
		for _, step := range summary.Ladders[group] {
			if step.Condition != "" {
				fmt.Printf("    tier %d: %s (when %s)\n", step.Tier, step.Class, step.Condition)
			} else {
				fmt.Printf("    tier %d: %s\n", step.Tier, step.Class)
			}
		}
	}

	fmt.Println("\nFixed contraindications:")
	for _, class := range []models.InterventionClass{models.ClassAlphaBlocker, models.ClassAntimuscarinic, models.ClassBeta3Agonist} {
		fmt.Printf("  %s: %s\n", class, summary.Contraindications[string(class)])
	}

	fmt.Println("\nResolver rules (first match wins):")
	for i, name := range summary.Rules {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}
