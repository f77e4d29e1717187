package engine

import (
	"strings"
	"testing"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

func TestEvaluateGateEligibility(t *testing.T) {
	// Ineligibility is checked before red flags and wins even when every
	// red flag is set.
	input := &models.PatientContext{
		AdultMale:            false,
		VisibleHaematuria:    true,
		SuspectedRetention:   true,
		AbnormalProstateExam: true,
		RecurrentUTI:         true,
		NeurologicalSymptoms: true,
	}
	got := EvaluateGate(input)
	if got.Status != GateNotEligible {
		t.Fatalf("expected GateNotEligible, got %v", got.Status)
	}
	if len(got.Escalations) != 0 {
		t.Errorf("ineligible result must carry no escalations, got %v", got.Escalations)
	}
}

func TestEvaluateGatePass(t *testing.T) {
	got := EvaluateGate(&models.PatientContext{AdultMale: true})
	if got.Status != GatePass {
		t.Fatalf("expected GatePass, got %v", got.Status)
	}
	if len(got.Escalations) != 0 {
		t.Errorf("pass result must carry no escalations, got %v", got.Escalations)
	}
}

func TestEvaluateGateSingleRedFlag(t *testing.T) {
	input := &models.PatientContext{
		AdultMale:         true,
		VisibleHaematuria: true,
	}
	got := EvaluateGate(input)
	if got.Status != GateEscalate {
		t.Fatalf("expected GateEscalate, got %v", got.Status)
	}
	if len(got.Escalations) != 1 {
		t.Fatalf("expected exactly one escalation, got %d: %v", len(got.Escalations), got.Escalations)
	}
	if !strings.Contains(got.Escalations[0], "haematuria") {
		t.Errorf("escalation should name the fired flag, got %q", got.Escalations[0])
	}
}

func TestEvaluateGateMultipleRedFlagsAllReported(t *testing.T) {
	input := &models.PatientContext{
		AdultMale:            true,
		SuspectedRetention:   true,
		NeurologicalSymptoms: true,
	}
	got := EvaluateGate(input)
	if got.Status != GateEscalate {
		t.Fatalf("expected GateEscalate, got %v", got.Status)
	}
	if len(got.Escalations) != 2 {
		t.Fatalf("expected both fired flags reported, got %d: %v", len(got.Escalations), got.Escalations)
	}
	// Declaration order: retention precedes neurological symptoms.
	if !strings.Contains(got.Escalations[0], "retention") {
		t.Errorf("first escalation should be retention, got %q", got.Escalations[0])
	}
	if !strings.Contains(got.Escalations[1], "eurological") {
		t.Errorf("second escalation should be neurological, got %q", got.Escalations[1])
	}
}

func TestEvaluateGateRedFlagPrecedenceProperty(t *testing.T) {
	// Every non-empty subset of red flags must escalate, independent of any
	// other field. Five flags, all 31 non-empty subsets.
	setters := []func(*models.PatientContext){
		func(c *models.PatientContext) { c.VisibleHaematuria = true },
		func(c *models.PatientContext) { c.SuspectedRetention = true },
		func(c *models.PatientContext) { c.AbnormalProstateExam = true },
		func(c *models.PatientContext) { c.RecurrentUTI = true },
		func(c *models.PatientContext) { c.NeurologicalSymptoms = true },
	}
	for mask := 1; mask < 1<<len(setters); mask++ {
		input := &models.PatientContext{
			AdultMale: true,
			// Unrelated fields must not change the outcome.
			Hesitancy:      mask%2 == 0,
			Urgency:        mask%3 == 0,
			OnAlphaBlocker: mask%5 == 0,
			Severity:       models.SeverityOf(mask % (models.MaxIPSS + 1)),
		}
		want := 0
		for i, set := range setters {
			if mask&(1<<i) != 0 {
				set(input)
				want++
			}
		}
		got := EvaluateGate(input)
		if got.Status != GateEscalate {
			t.Fatalf("mask %05b: expected GateEscalate, got %v", mask, got.Status)
		}
		if len(got.Escalations) != want {
			t.Errorf("mask %05b: expected %d escalations, got %d", mask, want, len(got.Escalations))
		}
	}
}

func TestRedFlagNames(t *testing.T) {
	names := RedFlagNames()
	want := []string{
		"visible_haematuria",
		"suspected_retention",
		"abnormal_prostate_exam",
		"recurrent_uti",
		"neurological_symptoms",
	}
	if len(names) != len(want) {
		t.Fatalf("expected %d red flags, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("red flag %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}
