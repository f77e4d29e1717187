package scenario

import (
	"testing"
)

const sampleSuite = `
suite: smoke
cases:
  - name: untreated voiding pattern
    context:
      adultMale: true
      hesitancy: true
      weakStream: true
    expect:
      status: ok
      category: voiding
      primaryClass: alpha_blocker
  - name: red flag escalates
    context:
      adultMale: true
      hesitancy: true
      weakStream: true
      visibleHaematuria: true
    expect:
      status: ok
      primaryClass: escalate
      escalations: 1
  - name: not eligible
    context:
      adultMale: false
    expect:
      status: not_eligible
`

func TestParseSuite(t *testing.T) {
	suite, err := ParseSuite([]byte(sampleSuite))
	if err != nil {
		t.Fatal(err)
	}
	if suite.Suite != "smoke" || len(suite.Cases) != 3 {
		t.Fatalf("unexpected suite: %+v", suite)
	}
}

func TestParseSuiteRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing suite name", data: "cases:\n  - name: a\n"},
		{name: "no cases", data: "suite: empty\n"},
		{name: "unnamed case", data: "suite: s\ncases:\n  - context: {}\n"},
		{name: "bad yaml", data: "suite: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSuite([]byte(tt.data)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestRunSuiteAllPass(t *testing.T) {
	suite, err := ParseSuite([]byte(sampleSuite))
	if err != nil {
		t.Fatal(err)
	}

	result := NewRunner().RunSuite(suite)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Results)
	}
	if result.PassedCases != 3 || result.FailedCases != 0 {
		t.Errorf("pass/fail counts: %d/%d", result.PassedCases, result.FailedCases)
	}
}

func TestRunSuiteReportsFailures(t *testing.T) {
	suite, err := ParseSuite([]byte(`
suite: failing
cases:
  - name: wrong expectation
    context:
      adultMale: true
      hesitancy: true
      weakStream: true
    expect:
      category: storage
`))
	if err != nil {
		t.Fatal(err)
	}

	result := NewRunner().RunSuite(suite)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.FailedCases != 1 {
		t.Errorf("expected one failed case, got %d", result.FailedCases)
	}
	if len(result.Results[0].Failures) == 0 {
		t.Error("failed case must explain what differed")
	}
}

func TestRunSuiteWithTenantOverride(t *testing.T) {
	suite, err := ParseSuite([]byte(`
suite: tenant-pinned
tenant:
  tenant: beacon-health
  version: "2026-03"
  exclude:
    antimuscarinic: true
cases:
  - name: exclusion diverts storage first line
    context:
      adultMale: true
      urgency: true
      nocturia: true
    expect:
      primaryClass: beta3_agonist
`))
	if err != nil {
		t.Fatal(err)
	}

	result := NewRunner().RunSuite(suite)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Results)
	}
}
