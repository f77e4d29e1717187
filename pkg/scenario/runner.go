// Package scenario runs clinical sign-off suites against the engine: YAML
// files of named patient contexts with their expected outcomes. Suites are
// how practice leads check a logic revision before it goes live.
package scenario

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/engine"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Expectation is the asserted outcome of one scenario case. Empty fields are
// not asserted.
type Expectation struct {
	Status       models.Status            `yaml:"status,omitempty" json:"status,omitempty"`
	Category     models.Category          `yaml:"category,omitempty" json:"category,omitempty"`
	PrimaryClass models.InterventionClass `yaml:"primaryClass,omitempty" json:"primaryClass,omitempty"`
	Escalations  *int                     `yaml:"escalations,omitempty" json:"escalations,omitempty"`
}

// Case is one named scenario: a patient context and the expected outcome.
type Case struct {
	Name    string                `yaml:"name" json:"name"`
	Context models.PatientContext `yaml:"context" json:"context"`
	Expect  Expectation           `yaml:"expect" json:"expect"`
}

// Suite is a named collection of scenario cases, optionally pinned to a
// tenant configuration.
type Suite struct {
	Suite  string               `yaml:"suite" json:"suite"`
	Tenant *config.TenantConfig `yaml:"tenant,omitempty" json:"tenant,omitempty"`
	Cases  []Case               `yaml:"cases" json:"cases"`
}

// CaseResult is the outcome of running one case.
type CaseResult struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

// SuiteResult is the outcome of running a complete suite.
type SuiteResult struct {
	Suite       string       `json:"suite"`
	TotalCases  int          `json:"totalCases"`
	PassedCases int          `json:"passedCases"`
	FailedCases int          `json:"failedCases"`
	Results     []CaseResult `json:"results"`
	Success     bool         `json:"success"`
}

// Runner evaluates scenario suites against a fixed engine.
type Runner struct {
	eng *engine.Engine
}

// NewRunner creates a scenario runner.
func NewRunner() *Runner {
	return &Runner{eng: engine.New()}
}

// LoadSuite reads and parses a suite file from disk.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// LoadSuiteFS reads and parses a suite file from a filesystem, typically the
// embedded builtin suites.
func LoadSuiteFS(fsys fs.FS, path string) (*Suite, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite parses suite YAML.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}
	if suite.Suite == "" {
		return nil, fmt.Errorf("suite missing name")
	}
	if len(suite.Cases) == 0 {
		return nil, fmt.Errorf("suite %s has no cases", suite.Suite)
	}
	for i, c := range suite.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("suite %s: case %d missing name", suite.Suite, i)
		}
	}
	return &suite, nil
}

// RunSuite evaluates every case of a suite and collects the outcomes.
func (r *Runner) RunSuite(suite *Suite) *SuiteResult {
	result := &SuiteResult{
		Suite:      suite.Suite,
		TotalCases: len(suite.Cases),
		Results:    make([]CaseResult, 0, len(suite.Cases)),
		Success:    true,
	}

	for _, c := range suite.Cases {
		cr := r.runCase(&c, suite.Tenant)
		result.Results = append(result.Results, cr)
		if cr.Passed {
			result.PassedCases++
		} else {
			result.FailedCases++
			result.Success = false
		}
	}
	return result
}

func (r *Runner) runCase(c *Case, tenant *config.TenantConfig) CaseResult {
	out := r.eng.Evaluate(&c.Context, tenant)

	var failures []string
	if c.Expect.Status != "" && out.Status != c.Expect.Status {
		failures = append(failures, fmt.Sprintf("status: expected %s, got %s", c.Expect.Status, out.Status))
	}
	if c.Expect.Category != "" && out.Category != c.Expect.Category {
		failures = append(failures, fmt.Sprintf("category: expected %s, got %s", c.Expect.Category, out.Category))
	}
	if c.Expect.PrimaryClass != "" && out.Primary.Class != c.Expect.PrimaryClass {
		failures = append(failures, fmt.Sprintf("primary class: expected %s, got %s", c.Expect.PrimaryClass, out.Primary.Class))
	}
	if c.Expect.Escalations != nil && len(out.Escalation) != *c.Expect.Escalations {
		failures = append(failures, fmt.Sprintf("escalations: expected %d, got %d", *c.Expect.Escalations, len(out.Escalation)))
	}

	return CaseResult{
		Name:     c.Name,
		Passed:   len(failures) == 0,
		Failures: failures,
	}
}
